package config

import "strings"

// extensionPresets maps preset names usable in monitor.file_extensions to
// the suffixes they expand to.
var extensionPresets = map[string][]string{
	"slackware-packages": {".tgz", ".tbz", ".tlz", ".txz"},
	"disk-images":        {".iso", ".img", ".raw", ".qcow2", ".vdi", ".vmdk"},
	"documents":          {".pdf", ".txt", ".md", ".odt", ".doc", ".docx", ".rtf"},
	"images":             {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".heic"},
	"audio":              {".mp3", ".wav", ".aac", ".flac", ".ogg"},
	"video":              {".mp4", ".mkv", ".avi", ".mov", ".webm"},
	"archives":           {".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"},
	"source-code":        {".py", ".c", ".cpp", ".java", ".js", ".html", ".css", ".sh"},
}

// PresetNames returns the available extension preset names, unsorted.
func PresetNames() []string {
	names := make([]string, 0, len(extensionPresets))
	for name := range extensionPresets {
		names = append(names, name)
	}
	return names
}

// expandExtensions resolves preset names, lowercases suffixes, and removes
// duplicates while preserving first-seen order.
func expandExtensions(values []string) []string {
	seen := map[string]struct{}{}
	var result []string
	add := func(ext string) {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			return
		}
		if _, ok := seen[ext]; ok {
			return
		}
		seen[ext] = struct{}{}
		result = append(result, ext)
	}
	for _, value := range values {
		trimmed := strings.ToLower(strings.TrimSpace(value))
		if preset, ok := extensionPresets[trimmed]; ok {
			for _, ext := range preset {
				add(ext)
			}
			continue
		}
		add(value)
	}
	return result
}
