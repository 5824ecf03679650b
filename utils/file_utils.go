package utils

import (
	"path/filepath"
	"strings"
)

// SanitizeFileName turns a client supplied file name into a safe blob key
// component: no directories, lowercase ASCII letters, digits, '.', '-' and '_'.
func SanitizeFileName(name string) string {
	// Browsers on Windows may send the full client path
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")

	var result strings.Builder
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9') || char == '-' || char == '_' || char == '.' {
			result.WriteRune(char)
		}
	}

	finalName := strings.Trim(result.String(), ".-")
	if finalName == "" {
		finalName = "file"
	}
	if len(finalName) > 100 {
		ext := filepath.Ext(finalName)
		if len(ext) > 10 {
			ext = ""
		}
		finalName = finalName[:100-len(ext)] + ext
	}
	return finalName
}
