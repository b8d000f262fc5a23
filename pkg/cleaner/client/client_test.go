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

package client

import (
	"os"
	"path/filepath"
	"testing"

	componentbaseconfig "k8s.io/component-base/config"
)

const kubeconfig = `apiVersion: v1
kind: Config
current-context: test
clusters:
- name: test-cluster
  cluster:
    server: https://10.0.0.1:6443
    insecure-skip-tls-verify: true
contexts:
- name: test
  context:
    cluster: test-cluster
    user: test-user
- name: dangling
  context:
    cluster: missing
    user: test-user
users:
- name: test-user
  user:
    token: abc
`

func writeKubeconfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kubeconfig")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetMasterFromKubeconfig(t *testing.T) {
	master, err := GetMasterFromKubeconfig(writeKubeconfig(t, kubeconfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if master != "https://10.0.0.1:6443" {
		t.Errorf("expected https://10.0.0.1:6443, got %q", master)
	}

	if _, err := GetMasterFromKubeconfig(writeKubeconfig(t, "apiVersion: v1\nkind: Config\ncurrent-context: missing\n")); err == nil {
		t.Errorf("expected an error for a missing current context")
	}
}

func TestCreateConfigFromKubeconfig(t *testing.T) {
	cfg, err := createConfig(componentbaseconfig.ClientConnectionConfiguration{
		Kubeconfig: writeKubeconfig(t, kubeconfig),
		QPS:        7,
		Burst:      11,
	}, "pod-cleanup-operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Host != "https://10.0.0.1:6443" {
		t.Errorf("expected host https://10.0.0.1:6443, got %q", cfg.Host)
	}
	if cfg.QPS != 7 || cfg.Burst != 11 {
		t.Errorf("expected qps 7 and burst 11, got %v and %v", cfg.QPS, cfg.Burst)
	}
	if cfg.BearerToken != "abc" {
		t.Errorf("expected the user token to be loaded")
	}
}
