// Package uriutil converts between file system paths and file:// URIs.
package uriutil

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// PathToURI converts a file system path to a percent-encoded file:// URI.
// Relative paths are made absolute first. On Windows, drive paths become
// file:///C:/... and UNC paths become file://server/share/...
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if runtime.GOOS == "windows" && strings.HasPrefix(path, `\\`) {
		host, rest, _ := strings.Cut(filepath.ToSlash(path[2:]), "/")
		return (&url.URL{Scheme: "file", Host: host, Path: "/" + rest}).String()
	}
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return (&url.URL{Scheme: "file", Path: slashed}).String()
}

// URIToPath converts a file:// URI to a file system path. Strings that are
// not file URIs are treated leniently as paths with an optional file://
// prefix.
func URIToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return trimDrive(filepath.FromSlash(strings.TrimPrefix(uri, "file://")))
	}
	if parsed.Host != "" {
		if runtime.GOOS == "windows" {
			return `\\` + parsed.Host + filepath.FromSlash(parsed.Path)
		}
		return parsed.Host + parsed.Path
	}
	return filepath.FromSlash(trimDrive(parsed.Path))
}

// trimDrive turns /C:/proj into C:/proj
func trimDrive(path string) string {
	if len(path) >= 3 && (path[0] == '/' || path[0] == '\\') && path[2] == ':' {
		return path[1:]
	}
	return path
}
