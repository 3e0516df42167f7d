package domain

import "strings"

// Separator is the path separator used by every path handed to the engine.
// Raw event sources convert platform paths with filepath.ToSlash.
const Separator = "/"

// CleanFolder strips trailing separators. The filesystem root keeps its single separator.
func CleanFolder(p string) string {
	trimmed := strings.TrimRight(p, Separator)
	if trimmed == "" && strings.HasPrefix(p, Separator) {
		return Separator
	}
	return trimmed
}

// FolderPrefix returns the prefix shared by every path strictly under folder.
func FolderPrefix(folder string) string {
	folder = CleanFolder(folder)
	if folder == Separator {
		return Separator
	}
	return folder + Separator
}

// BaseName returns the final path component, ignoring trailing separators.
func BaseName(p string) string {
	p = CleanFolder(p)
	if p == Separator {
		return p
	}
	if i := strings.LastIndex(p, Separator); i >= 0 {
		return p[i+1:]
	}
	return p
}
