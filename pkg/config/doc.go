// Copyright (c) 2025, Red Hat, Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the YAML configuration of the insights tool.
//
//	root: /
//	command_timeout: 2m
//	fetch_timeout: 5s
//	concurrency: 8
//	apply_filters: true
//	components: [cpu_vulnerable, cloud_host]
//	skip:
//	  specs: [installed_rpms]
//	  files: [/etc/shadow*]
//	  commands: [/usr/sbin/dmidecode]
//	redact:
//	  patterns: ["^password"]
//	  keywords: [example.com]
//	rules_file: /etc/insights/rules.yaml
//
// Values left out keep their defaults. Command line flags and INSIGHTS_*
// environment variables override the file.
package config
