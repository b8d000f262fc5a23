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

// Package app implements a Server object for running the pod-cleanup-operator.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	apiserver "k8s.io/apiserver/pkg/server"
	"k8s.io/apiserver/pkg/server/healthz"
	"k8s.io/apiserver/pkg/server/mux"
	restclient "k8s.io/client-go/rest"
	logsapi "k8s.io/component-base/logs/api/v1"
	_ "k8s.io/component-base/logs/json/register"
	"k8s.io/component-base/metrics/legacyregistry"
	"k8s.io/klog/v2"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/cmd/pod-cleanup-operator/app/options"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/metrics"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/features"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/version"
)

// NewCleanupCommand creates a *cobra.Command object with default parameters
func NewCleanupCommand(out io.Writer) *cobra.Command {
	s := options.NewCleanupServer()

	cmd := &cobra.Command{
		Use:   "pod-cleanup-operator [flags] STATUS[:REASON]...",
		Short: "pod-cleanup-operator",
		Long: `The pod-cleanup-operator periodically deletes pods and jobs that have been in a
matching status for longer than the grace period, or that outlived the lifetime
declared in their annotation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s.SetStatuses(args)

			if err := logsapi.ValidateAndApply(&s.Logging, features.DefaultFeatureGate); err != nil {
				return fmt.Errorf("failed to apply logging configuration: %w", err)
			}

			ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer done()

			return Run(ctx, s)
		},
	}
	cmd.SetOut(out)
	flags := cmd.Flags()
	s.AddFlags(flags)
	return cmd
}

// Run serves /metrics and /healthz, then runs the cleanup loop. Reaching the
// error limit is returned as an error so the process exits non-zero.
func Run(ctx context.Context, rs *options.CleanupServer) error {
	logger := klog.FromContext(ctx)
	info := version.Get()
	logger.Info("Starting pod-cleanup-operator", "version", info.String(), "gitSha1", info.GitSha1, "buildDate", info.BuildDate)

	if !rs.DisableMetrics {
		metrics.Register()
	}

	serveCtx, stopServing := context.WithCancel(ctx)
	defer stopServing()
	stoppedCh, err := serve(serveCtx, rs)
	if err != nil {
		return err
	}

	err = cleaner.Run(ctx, rs)
	if errors.Is(err, cleaner.ErrErrorLimitReached) {
		logger.Error(err, "Giving up", "errorLimit", rs.ErrorLimit)
	}

	stopServing()
	if stoppedCh != nil {
		// wait for metrics server to close
		<-stoppedCh
	}
	return err
}

// serve starts the secure metrics and health server until ctx is done.
// The returned channel closes once the server stopped. It is nil when
// serving is disabled.
func serve(ctx context.Context, rs *options.CleanupServer) (<-chan struct{}, error) {
	if rs.SecureServing.BindPort <= 0 && rs.SecureServing.Listener == nil {
		return nil, nil
	}
	if err := rs.SecureServing.MaybeDefaultWithSelfSignedCerts("localhost", nil, nil); err != nil {
		return nil, fmt.Errorf("failed to create self-signed certificates: %w", err)
	}

	// LoopbackClientConfig is a config for a privileged loopback connection
	var loopbackClientConfig *restclient.Config
	var secureServing *apiserver.SecureServingInfo
	if err := rs.SecureServing.ApplyTo(&secureServing, &loopbackClientConfig); err != nil {
		return nil, fmt.Errorf("failed to apply secure server configuration: %w", err)
	}

	pathRecorderMux := mux.NewPathRecorderMux("pod-cleanup-operator")
	if !rs.DisableMetrics {
		pathRecorderMux.Handle("/metrics", legacyregistry.HandlerWithReset())
	}
	healthz.InstallHandler(pathRecorderMux, healthz.NamedCheck("PodCleanupOperator", healthz.PingHealthz.Check))

	stoppedCh, _, err := secureServing.Serve(pathRecorderMux, 0, ctx.Done())
	if err != nil {
		return nil, fmt.Errorf("failed to start secure server: %w", err)
	}
	return stoppedCh, nil
}
