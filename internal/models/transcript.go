package models

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SaveDir is where finished-game transcripts are written. Overridable so the
// commands can point it at a configured directory.
var SaveDir = ".transcripts"

// Transcript is the durable record of a finished game. Live session state is
// never persisted; a transcript is written only after settlement.
type Transcript struct {
	Product  Product            `yaml:"product"`
	Customer Customer           `yaml:"customer"`
	History  []ConversationTurn `yaml:"history"`
	Result   SalesResult        `yaml:"result"`
	EndedAt  time.Time          `yaml:"ended_at"`
}

// Transcript builds the transcript for this session and its settlement.
func (s *GameSession) Transcript(result SalesResult) *Transcript {
	return &Transcript{
		Product:  s.Product,
		Customer: s.Customer,
		History:  s.ConversationHistory,
		Result:   result,
		EndedAt:  time.Now(),
	}
}

func (t *Transcript) Save(name string) error {
	if err := os.MkdirAll(SaveDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(SaveDir, name+".yaml"), data, 0644)
}

func LoadTranscript(name string) (*Transcript, error) {
	data, err := os.ReadFile(filepath.Join(SaveDir, name+".yaml"))
	if err != nil {
		return nil, err
	}

	var t Transcript
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func ListTranscripts() ([]string, error) {
	if _, err := os.Stat(SaveDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(SaveDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ".yaml" {
			names = append(names, entry.Name()[:len(entry.Name())-len(".yaml")])
		}
	}
	return names, nil
}
