// Package detect guesses submission fields from the files in a project directory.
package detect

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	defaultCategory   = "tools"
	maxDescriptionLen = 200
)

type ProjectInfo struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	GithubURL   string   `json:"github_url"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
}

type packageJSON struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Keywords     []string          `json:"keywords"`
	Dependencies map[string]string `json:"dependencies"`
}

var gitURLPattern = regexp.MustCompile(`url = (.+)`)

// Detect inspects package.json, go.mod, README.md and .git/config under dir.
// A source that is missing or fails to parse leaves its fields at their defaults.
func Detect(dir string) ProjectInfo {
	info := ProjectInfo{
		Title:    filepath.Base(dir),
		Tags:     []string{},
		Category: defaultCategory,
	}

	hasName := readPackageJSON(filepath.Join(dir, "package.json"), &info)
	if !hasName {
		readGoMod(filepath.Join(dir, "go.mod"), &info)
	}
	if info.Description == "" {
		readReadme(filepath.Join(dir, "README.md"), &info)
	}
	readGitConfig(filepath.Join(dir, ".git", "config"), &info)
	return info
}

func readPackageJSON(file string, info *ProjectInfo) bool {
	data, err := os.ReadFile(file)
	if err != nil {
		return false
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return false
	}

	if pkg.Name != "" {
		info.Title = pkg.Name
	}
	if pkg.Description != "" {
		info.Description = pkg.Description
	}
	if len(pkg.Keywords) > 0 {
		info.Tags = pkg.Keywords
	}
	switch {
	case has(pkg.Dependencies, "express", "fastify"):
		info.Category = "apis"
	case has(pkg.Dependencies, "react", "vue", "svelte"):
		info.Category = "web-apps"
	}
	return pkg.Name != ""
}

func has(deps map[string]string, names ...string) bool {
	for _, n := range names {
		if _, ok := deps[n]; ok {
			return true
		}
	}
	return false
}

func readGoMod(file string, info *ProjectInfo) {
	data, err := os.ReadFile(file)
	if err != nil {
		return
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if mod, ok := strings.CutPrefix(line, "module "); ok {
			mod = strings.Trim(strings.TrimSpace(mod), `"`)
			if mod != "" {
				info.Title = path.Base(mod)
			}
			return
		}
	}
}

func readReadme(file string, info *ProjectInfo) {
	data, err := os.ReadFile(file)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		if len(line) > maxDescriptionLen {
			line = truncate(line, maxDescriptionLen)
		}
		info.Description = line
		return
	}
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	for n > 0 && !utf8Start(s[n]) {
		n--
	}
	return s[:n]
}

func utf8Start(b byte) bool { return b&0xC0 != 0x80 }

func readGitConfig(file string, info *ProjectInfo) {
	data, err := os.ReadFile(file)
	if err != nil {
		return
	}
	m := gitURLPattern.FindSubmatch(data)
	if m == nil {
		return
	}
	url := strings.TrimSpace(string(m[1]))
	if rest, ok := strings.CutPrefix(url, "git@github.com:"); ok {
		url = "https://github.com/" + rest
	}
	info.GithubURL = strings.TrimSuffix(url, ".git")
}
