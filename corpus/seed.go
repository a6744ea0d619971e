// Package corpus loads reference corpus seed files and imports them into a
// reference store.
package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"hukukai-backend/models"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptySeed = errors.New("seed file contains no laws or decisions")
)

// Seed is the on-disk corpus format
type Seed struct {
	Laws      []LawSeed      `yaml:"laws"`
	Decisions []DecisionSeed `yaml:"decisions"`
}

// LawSeed is one statute with its articles
type LawSeed struct {
	LawNo           string        `yaml:"law_no"`
	Name            string        `yaml:"name"`
	Category        string        `yaml:"category"`
	Content         string        `yaml:"content"`
	PublicationDate string        `yaml:"publication_date"`
	LastUpdated     string        `yaml:"last_updated"`
	Articles        []ArticleSeed `yaml:"articles"`
}

type ArticleSeed struct {
	ArticleNo string `yaml:"article_no"`
	Content   string `yaml:"content"`
}

// DecisionSeed is one court decision. Keywords may be given as a list or as a
// comma-joined string.
type DecisionSeed struct {
	DecisionNo   string   `yaml:"decision_no"`
	DecisionDate string   `yaml:"decision_date"`
	Chamber      string   `yaml:"chamber"`
	Subject      string   `yaml:"subject"`
	Content      string   `yaml:"content"`
	Keywords     Keywords `yaml:"keywords"`
}

// Keywords accepts either a YAML sequence or a scalar
type Keywords []string

func (k *Keywords) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*k = nil
		for _, part := range strings.Split(node.Value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				*k = append(*k, part)
			}
		}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*k = list
		return nil
	default:
		return fmt.Errorf("line %d: keywords must be a string or a list", node.Line)
	}
}

// Joined returns the keywords in the stored comma-joined form
func (k Keywords) Joined() string {
	return strings.Join(k, ", ")
}

// LoadFile reads a seed file from disk
func LoadFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	seed, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seed, nil
}

// Load decodes a seed document. Unknown fields are rejected.
func Load(r io.Reader) (*Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var seed Seed
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptySeed
		}
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if len(seed.Laws) == 0 && len(seed.Decisions) == 0 {
		return nil, ErrEmptySeed
	}
	return &seed, nil
}

func (l LawSeed) statute() *models.Statute {
	return &models.Statute{
		StatuteNumber:   strings.TrimSpace(l.LawNo),
		Name:            strings.TrimSpace(l.Name),
		Category:        strings.TrimSpace(l.Category),
		Content:         l.Content,
		PublicationDate: l.PublicationDate,
		LastUpdated:     l.LastUpdated,
	}
}

func (d DecisionSeed) decision() *models.CourtDecision {
	return &models.CourtDecision{
		DecisionNumber: strings.TrimSpace(d.DecisionNo),
		DecisionDate:   d.DecisionDate,
		Chamber:        strings.TrimSpace(d.Chamber),
		Subject:        d.Subject,
		Content:        d.Content,
		Keywords:       d.Keywords.Joined(),
	}
}
