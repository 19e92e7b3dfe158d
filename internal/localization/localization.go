// Package localization provides the multilingual strings used by the
// civic assistant (chat replies, Telegram prompts). Translations load
// from JSON files named by language ("English.json", "Hindi.json");
// English ships built in so the assistant works without any files.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const defaultLanguage = "English"

var builtinEnglish = map[string]string{
	"fallback_reply":   "I've identified this as a '%s' issue. I've automatically filled out the form for you with the details.",
	"ask_description":  "Please describe the civic issue you want to report.",
	"report_received":  "Thanks! Your complaint %s was filed and routed to %s.",
	"report_unrouted":  "Thanks! Your complaint %s was filed and is awaiting assignment.",
	"report_failed":    "Sorry, your report could not be filed right now. Please try again.",
	"report_rejected":  "The submitted image does not appear to show a civic issue: %s",
	"greeting":         "Hello! Tell me about a civic problem (garbage, potholes, water, streetlights) and I will file it for you.",
}

// Localizer holds per-language string tables behind a read lock.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewLocalizer loads every *.json table from dir. A missing directory is
// not an error; the built-in English table always remains available.
func NewLocalizer(dir string) (*Localizer, error) {
	l := &Localizer{
		translations: map[string]map[string]string{
			defaultLanguage: builtinEnglish,
		},
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var table map[string]string
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		l.mu.Lock()
		if lang == defaultLanguage {
			for k, v := range table {
				l.translations[defaultLanguage][k] = v
			}
		} else {
			l.translations[lang] = table
		}
		l.mu.Unlock()
	}

	return l, nil
}

// GetString returns the localized string for a key, falling back to
// English and finally to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if table, ok := l.translations[lang]; ok {
		if value, ok := table[key]; ok {
			return value
		}
	}
	if value, ok := l.translations[defaultLanguage][key]; ok {
		return value
	}
	return key
}

// Sprintf localizes the key and applies the arguments.
func (l *Localizer) Sprintf(lang, key string, args ...any) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}
