/*
Copyright 2026 The Pod Cleanup Operator Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cleaner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"k8s.io/apimachinery/pkg/util/uuid"
	clientset "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/leaderelection"
	"k8s.io/client-go/tools/leaderelection/resourcelock"
	componentbaseconfig "k8s.io/component-base/config"
	"k8s.io/klog/v2"
)

var errLeaderElectionLost = errors.New("leader election lost")

// NewLeaderElection runs run once the lease is acquired and returns its
// error. Losing the lease stops run and returns an error.
func NewLeaderElection(
	ctx context.Context,
	run func(ctx context.Context) error,
	client clientset.Interface,
	leaderElectionConfig *componentbaseconfig.LeaderElectionConfiguration,
) error {
	logger := klog.FromContext(ctx)
	var id string

	if hostname, err := os.Hostname(); err != nil {
		// on errors, make sure we're unique
		id = string(uuid.NewUUID())
	} else {
		// add a uniquifier so that two processes on the same host don't accidentally both become active
		id = hostname + "_" + string(uuid.NewUUID())
	}

	logger.V(3).Info("Assigned unique lease holder id", "id", id)

	if len(leaderElectionConfig.ResourceNamespace) == 0 {
		return fmt.Errorf("namespace may not be empty")
	}

	if len(leaderElectionConfig.ResourceName) == 0 {
		return fmt.Errorf("name may not be empty")
	}

	lock, err := resourcelock.New(
		leaderElectionConfig.ResourceLock,
		leaderElectionConfig.ResourceNamespace,
		leaderElectionConfig.ResourceName,
		client.CoreV1(),
		client.CoordinationV1(),
		resourcelock.ResourceLockConfig{
			Identity: id,
		},
	)
	if err != nil {
		return fmt.Errorf("unable to create leader election lock: %w", err)
	}
	tracker := &leaseTracker{Interface: lock}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	leaderelection.RunOrDie(ctx, leaderelection.LeaderElectionConfig{
		Lock:            tracker,
		ReleaseOnCancel: true,
		LeaseDuration:   leaderElectionConfig.LeaseDuration.Duration,
		RenewDeadline:   leaderElectionConfig.RenewDeadline.Duration,
		RetryPeriod:     leaderElectionConfig.RetryPeriod.Duration,
		Callbacks: leaderelection.LeaderCallbacks{
			OnStartedLeading: func(ctx context.Context) {
				logger.V(1).Info("Started leading")
				done <- run(ctx)
				cancel()
			},
			OnStoppedLeading: func() {
				logger.V(1).Info("Leader lost")
			},
			OnNewLeader: func(identity string) {
				// Just got the lock
				if identity == id {
					return
				}
				logger.V(1).Info("New leader elected", "identity", identity)
			},
		},
	})

	// OnStartedLeading is always started once the lease was acquired.
	// Wait for it so the in-flight cycle finishes.
	if tracker.Acquired() {
		if err := <-done; err != nil {
			return err
		}
	}
	if parent.Err() != nil {
		return nil
	}
	return errLeaderElectionLost
}

// leaseTracker records whether the lease was ever written with this
// process as the holder, which is what makes RunOrDie start leading.
type leaseTracker struct {
	resourcelock.Interface
	acquired atomic.Bool
}

func (l *leaseTracker) Create(ctx context.Context, ler resourcelock.LeaderElectionRecord) error {
	err := l.Interface.Create(ctx, ler)
	l.record(ler, err)
	return err
}

func (l *leaseTracker) Update(ctx context.Context, ler resourcelock.LeaderElectionRecord) error {
	err := l.Interface.Update(ctx, ler)
	l.record(ler, err)
	return err
}

func (l *leaseTracker) record(ler resourcelock.LeaderElectionRecord, err error) {
	if err == nil && ler.HolderIdentity == l.Identity() {
		l.acquired.Store(true)
	}
}

// Acquired reports whether this process ever held the lease.
func (l *leaseTracker) Acquired() bool {
	return l.acquired.Load()
}
