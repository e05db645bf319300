// ABOUTME: Pattern library of lexical triggers grouped into priority tiers
// ABOUTME: Pure data consumed by the Classifier; extensible from a YAML file
package core

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tier names one ordered group of triggers
type Tier string

const (
	TierRetrieval    Tier = "retrieval"
	TierHypothetical Tier = "hypothetical"
	TierCommand      Tier = "command"
)

// Trigger is a single lexical pattern with a human readable reason
type Trigger struct {
	Phrase string
	Reason string
	re     *regexp.Regexp
}

// Matches tests the trigger against already normalized text
func (t Trigger) Matches(normalized string) bool {
	return t.re.MatchString(normalized)
}

// Expr returns the compiled expression source
func (t Trigger) Expr() string {
	return t.re.String()
}

// phrase builds a trigger matching the phrase anywhere on word boundaries
func phrase(p, reason string) Trigger {
	return Trigger{
		Phrase: p,
		Reason: reason,
		re:     regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`),
	}
}

// leading builds a trigger matching the word only at the start of the text
func leading(p, reason string) Trigger {
	return Trigger{
		Phrase: p,
		Reason: reason,
		re:     regexp.MustCompile(`^\s*` + regexp.QuoteMeta(p) + `\b`),
	}
}

// PatternLibrary holds the three trigger tiers in table order
type PatternLibrary struct {
	Retrieval    []Trigger
	Hypothetical []Trigger
	Command      []Trigger
}

// DefaultPatternLibrary returns the built-in trigger tables
func DefaultPatternLibrary() *PatternLibrary {
	return &PatternLibrary{
		Retrieval: []Trigger{
			// Sentence-initial questions
			leading("when", "question starting with 'when'"),
			leading("what", "question starting with 'what'"),
			leading("where", "question starting with 'where'"),

			// Mid-sentence questions; these let a question ending beat a hypothetical opener
			phrase("what to do", "question 'what to do'"),
			phrase("what should i", "question 'what should i'"),
			phrase("when is", "question 'when is'"),
			phrase("when was", "question 'when was'"),

			// Search commands
			phrase("check", "search keyword 'check'"),
			phrase("search", "search keyword 'search'"),
			phrase("find", "search keyword 'find'"),
			phrase("show me", "search keyword 'show me'"),
			phrase("history", "search keyword 'history'"),
			phrase("do i have", "availability question 'do i have'"),
			phrase("am i free", "availability question 'am i free'"),
		},
		Hypothetical: []Trigger{
			phrase("suppose", "hypothetical marker 'suppose'"),
			phrase("imagine", "hypothetical marker 'imagine'"),
			phrase("what if", "hypothetical marker 'what if'"),
			phrase("let's say", "hypothetical marker 'let's say'"),
			phrase("assuming", "hypothetical marker 'assuming'"),
			phrase("hypothetically", "hypothetical marker 'hypothetically'"),
		},
		Command: []Trigger{
			phrase("schedule", "action verb 'schedule'"),
			phrase("remind", "action verb 'remind'"),
			phrase("plan", "action verb 'plan'"),
			phrase("save", "action verb 'save'"),
			phrase("note", "action verb 'note'"),
			phrase("create", "action verb 'create'"),
			phrase("call", "action verb 'call'"),
			phrase("book", "action verb 'book'"),
			phrase("set a", "action verb 'set a'"),
			phrase("have a", "action verb 'have a'"),
			phrase("send", "communication verb 'send'"),
			phrase("write", "communication verb 'write'"),
			phrase("email", "communication verb 'email'"),
			phrase("mail", "communication verb 'mail'"),
		},
	}
}

// Tier returns the triggers of one tier
func (l *PatternLibrary) Tier(tier Tier) ([]Trigger, error) {
	switch tier {
	case TierRetrieval:
		return l.Retrieval, nil
	case TierHypothetical:
		return l.Hypothetical, nil
	case TierCommand:
		return l.Command, nil
	}
	return nil, fmt.Errorf("unknown tier %q", tier)
}

// Extend appends a trigger to the end of a tier. Either phrase or pattern must be set;
// a phrase is matched on word boundaries, a pattern is used as a raw expression.
// Extend must not be called once a Classifier has been built from the library.
func (l *PatternLibrary) Extend(tier Tier, phraseText, pattern, reason string) error {
	phraseText = strings.ToLower(strings.TrimSpace(phraseText))
	pattern = strings.TrimSpace(pattern)

	var trig Trigger
	switch {
	case phraseText != "" && pattern != "":
		return fmt.Errorf("trigger must set phrase or pattern, not both")
	case phraseText != "":
		if reason == "" {
			reason = fmt.Sprintf("%s keyword '%s'", tier, phraseText)
		}
		trig = phrase(phraseText, reason)
	case pattern != "":
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if reason == "" {
			reason = fmt.Sprintf("%s pattern %s", tier, pattern)
		}
		trig = Trigger{Phrase: pattern, Reason: reason, re: re}
	default:
		return fmt.Errorf("trigger must set phrase or pattern")
	}

	switch tier {
	case TierRetrieval:
		l.Retrieval = append(l.Retrieval, trig)
	case TierHypothetical:
		l.Hypothetical = append(l.Hypothetical, trig)
	case TierCommand:
		l.Command = append(l.Command, trig)
	default:
		return fmt.Errorf("unknown tier %q", tier)
	}
	return nil
}

// triggerSpec is one trigger entry in an extension file
type triggerSpec struct {
	Phrase  string `yaml:"phrase"`
	Pattern string `yaml:"pattern"`
	Reason  string `yaml:"reason"`
}

// extensionFile is the YAML layout of a pattern extension file
type extensionFile struct {
	Retrieval    []triggerSpec `yaml:"retrieval"`
	Hypothetical []triggerSpec `yaml:"hypothetical"`
	Command      []triggerSpec `yaml:"command"`
}

// LoadExtensions parses YAML trigger extensions and appends them tier by tier
func (l *PatternLibrary) LoadExtensions(data []byte) error {
	var ext extensionFile
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return fmt.Errorf("parsing pattern extensions: %w", err)
	}

	groups := []struct {
		tier  Tier
		specs []triggerSpec
	}{
		{TierRetrieval, ext.Retrieval},
		{TierHypothetical, ext.Hypothetical},
		{TierCommand, ext.Command},
	}
	for _, g := range groups {
		for i, spec := range g.specs {
			if err := l.Extend(g.tier, spec.Phrase, spec.Pattern, spec.Reason); err != nil {
				return fmt.Errorf("%s[%d]: %w", g.tier, i, err)
			}
		}
	}
	return nil
}

// LoadPatternLibrary returns the default library extended from path, if path is set
func LoadPatternLibrary(path string) (*PatternLibrary, error) {
	lib := DefaultPatternLibrary()
	if path == "" {
		return lib, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pattern file: %w", err)
	}
	if err := lib.LoadExtensions(data); err != nil {
		return nil, err
	}
	return lib, nil
}
