package dom

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/entrhq/bua/pkg/logging"
)

//go:embed buildDomTree.js
var defaultScript string

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("dom")
	if err != nil {
		debugLog.Warnf("Failed to initialize dom logger, using stderr fallback: %v", err)
	}
}

// ErrExtraction is the sentinel wrapped by every ExtractionError.
var ErrExtraction = errors.New("dom extraction failed")

// ExtractionError reports that the in-page script produced no usable tree.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot get DOM from %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("cannot get DOM from %s", e.URL)
}

func (e *ExtractionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrExtraction, e.Err}
	}
	return []error{ErrExtraction}
}

// DefaultViewportExpansion is the off-screen margin, in pixels, that still
// counts as visible so lazily rendered content is included.
const DefaultViewportExpansion = 500

// ParseConfig is handed to the extraction script as its single argument.
type ParseConfig struct {
	HighlightElements bool
	FocusElement      int
	ViewportExpansion int
}

// DefaultParseConfig highlights elements, focuses none and uses the default expansion.
func DefaultParseConfig() ParseConfig {
	return ParseConfig{
		HighlightElements: true,
		FocusElement:      -1,
		ViewportExpansion: DefaultViewportExpansion,
	}
}

func (c ParseConfig) args() map[string]interface{} {
	return map[string]interface{}{
		"doHighlightElements": c.HighlightElements,
		"focusHighlightIndex": c.FocusElement,
		"viewportExpansion":   c.ViewportExpansion,
	}
}

// Evaluator is the slice of playwright.Page the extractor needs.
type Evaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
	URL() string
}

// Extractor runs the DOM script against a live page.
type Extractor struct {
	script string
}

// NewExtractor returns an extractor using the embedded script.
func NewExtractor() *Extractor {
	return &Extractor{script: defaultScript}
}

// NewExtractorFromFile loads the script from path; an empty path selects the
// embedded script.
func NewExtractorFromFile(path string) (*Extractor, error) {
	if path == "" {
		return NewExtractor(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dom script: %w", err)
	}
	return &Extractor{script: string(data)}, nil
}

// Extract evaluates the script with cfg and decodes the resulting tree.
// A nil result is always an error, never an empty tree.
func (e *Extractor) Extract(page Evaluator, cfg ParseConfig) (*DomTreeNode, error) {
	url := page.URL()

	result, err := page.Evaluate(e.script, cfg.args())
	if err != nil {
		return nil, &ExtractionError{URL: url, Err: err}
	}
	if result == nil {
		return nil, &ExtractionError{URL: url}
	}

	root, err := decode(result)
	if err != nil {
		return nil, &ExtractionError{URL: url, Err: err}
	}
	debugLog.Debugf("extracted dom from %s (%d interactive elements)", url, len(root.Interactive()))
	return root, nil
}

// decode converts the generic evaluate result into a typed tree.
func decode(result interface{}) (*DomTreeNode, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode evaluate result: %w", err)
	}
	var root DomTreeNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to decode dom tree: %w", err)
	}
	if root.Type == "" {
		return nil, errors.New("evaluate result is not a dom node")
	}
	return &root, nil
}
