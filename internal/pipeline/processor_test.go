package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTranscript_PlainText(t *testing.T) {
	cleaned := CleanTranscript("  My mother   Mary was born\n\nin 1945.  ")
	assert.Equal(t, "My mother Mary was born in 1945.", cleaned)
}

func TestCleanTranscript_StripsMarkup(t *testing.T) {
	html := `<html><head><style>p { color: red; }</style></head>` +
		`<body><p>We moved to Chicago in 1962.</p><script>var x = 1;</script></body></html>`

	cleaned := CleanTranscript(html)

	assert.Equal(t, "We moved to Chicago in 1962.", cleaned)
}

func TestCleanTranscript_MathSymbolsAreNotMarkup(t *testing.T) {
	// A stray comparison should not trigger HTML parsing that eats text.
	cleaned := CleanTranscript("Back then wages were < 2 dollars and > 1 dollar.")
	assert.Contains(t, cleaned, "dollars")
}

func TestCleanTranscript_Empty(t *testing.T) {
	assert.Equal(t, "", CleanTranscript("   "))
}
