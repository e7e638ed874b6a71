package anki

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/merhaba/internal/vocab"
)

// Card represents a single Anki note
type Card struct {
	Turkish            string // Front of the card
	Pronunciation      string
	Chinese            string // Meaning shown on the back
	Example            string
	ExampleTranslation string
	Tags               []string
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string   // Output CSV file path
	IncludeHeaders bool     // Write Anki file directives before the notes
	Tags           []string // Tags added to every card
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "merhaba_anki.csv",
		IncludeHeaders: true,
		Tags:           []string{"merhaba"},
	}
}

// columns are the note fields in file order; the last one holds the tags
var columns = []string{"Turkish", "Pronunciation", "Chinese", "Example", "ExampleTranslation", "Tags"}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddWords adds one card per lesson word, tagged with tags
func (g *Generator) AddWords(words []vocab.Word, tags ...string) {
	for _, w := range words {
		g.AddCard(Card{
			Turkish:            w.Turkish,
			Pronunciation:      w.Pronunciation,
			Chinese:            w.Chinese,
			Example:            w.ExampleSentence,
			ExampleTranslation: w.ExampleTranslation,
			Tags:               tags,
		})
	}
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// WriteCSV writes the cards in Anki's text import format
func (g *Generator) WriteCSV(w io.Writer) error {
	if g.options.IncludeHeaders {
		// Directives are plain lines; the csv writer would quote the commas
		header := fmt.Sprintf("#separator:Comma\n#html:false\n#columns:%s\n#tags column:%d\n",
			strings.Join(columns, ","), len(columns))
		if _, err := io.WriteString(w, header); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	for _, card := range g.cards {
		record := []string{
			card.Turkish,
			card.Pronunciation,
			card.Chinese,
			card.Example,
			card.ExampleTranslation,
			g.formatTags(card.Tags),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// GenerateCSV creates the CSV file at the configured output path
func (g *Generator) GenerateCSV() error {
	if dir := filepath.Dir(g.options.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := g.WriteCSV(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// formatTags joins the option and card tags the way Anki expects them:
// space separated, without spaces inside a tag
func (g *Generator) formatTags(cardTags []string) string {
	seen := make(map[string]bool)
	var tags []string
	for _, tag := range append(append([]string(nil), g.options.Tags...), cardTags...) {
		tag = strings.Join(strings.Fields(tag), "_")
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return strings.Join(tags, " ")
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withExamples int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.Example != "" {
			withExamples++
		}
	}

	return
}
