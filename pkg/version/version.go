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

package version

import (
	"fmt"
	"regexp"
	"runtime"

	utilversion "k8s.io/apimachinery/pkg/util/version"
)

var (
	// version is the tag that generated this build. It should be set during build via -ldflags.
	version string
	// buildDate in ISO8601 format, output of $(date -u +'%Y-%m-%dT%H:%M:%SZ')
	// It should be set during build via -ldflags.
	buildDate string
	// gitbranch is the git branch of this build. It should be set during build via -ldflags.
	gitbranch string
	// gitsha1 is the git sha1 of this build. It should be set during build via -ldflags.
	gitsha1 string
)

// Container builds prefix the release tag with the build date, e.g. v20260519-v0.3.0.
var datedBuild = regexp.MustCompile(`^v\d{8}-(v\d+\.\d+\.\d+.*)$`)

// Info holds the information related to the operator version.
type Info struct {
	Major      string `json:"major"`
	Minor      string `json:"minor"`
	GitVersion string `json:"gitVersion"`
	GitBranch  string `json:"gitBranch"`
	GitSha1    string `json:"gitSha1"`
	BuildDate  string `json:"buildDate"`
	GoVersion  string `json:"goVersion"`
	Compiler   string `json:"compiler"`
	Platform   string `json:"platform"`
}

// Get returns the overall codebase version. It's for detecting
// what code a binary was built from.
func Get() Info {
	majorVersion, minorVersion := splitVersion(version)
	return Info{
		Major:      majorVersion,
		Minor:      minorVersion,
		GitVersion: version,
		GitBranch:  gitbranch,
		GitSha1:    gitsha1,
		BuildDate:  buildDate,
		GoVersion:  runtime.Version(),
		Compiler:   runtime.Compiler,
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the version the way the startup banner prints it.
func (i Info) String() string {
	if i.GitVersion == "" {
		return "devel"
	}
	return i.GitVersion
}

// splitVersion returns the major version and the minor.patch pair of a tag.
func splitVersion(v string) (string, string) {
	if v == "" {
		return "", ""
	}
	if m := datedBuild.FindStringSubmatch(v); m != nil {
		v = m[1]
	}
	parsed, err := utilversion.ParseGeneric(v)
	if err != nil {
		return "", ""
	}
	return fmt.Sprint(parsed.Major()), fmt.Sprintf("%d.%d", parsed.Minor(), parsed.Patch())
}
