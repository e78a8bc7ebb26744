package jsonish

import (
	"errors"
	"regexp"
	"strings"
)

// errNoMarkdown signals that no fenced code block produced a parse.
var errNoMarkdown = errors.New("no markdown blocks found")

// Fences are anchored to the start of a line (optionally indented) so
// fence-like content inside strings does not open a block.
var (
	mdTagStart = regexp.MustCompile("(?m)^[ \t]*```([a-zA-Z0-9 ]+)(?:\n|$)")
	mdTagEnd   = regexp.MustCompile("(?m)^[ \t]*```(?:\n|$)")
)

// markdownBlock is either a fenced code block with its parsed content, or
// a run of text between blocks.
type markdownBlock struct {
	tag   string
	value Value
	text  string
	isRaw bool
}

// parseMarkdown extracts fenced code blocks and parses each one's content
// recursively. The first `` ``` `` after an opening fence may sit inside the
// fenced payload (for example within a JSON string), so for each opening
// fence the first closing fence whose content parses successfully is
// chosen; this also prevents one block from swallowing the next.
func parseMarkdown(text string, opts Options) ([]markdownBlock, error) {
	var blocks []markdownBlock

	remaining := text
	shouldLoop := true

	for shouldLoop {
		loc := mdTagStart.FindStringSubmatchIndex(remaining)
		if loc == nil {
			break
		}

		if len(blocks) > 0 {
			if between := remaining[:loc[0]]; strings.TrimSpace(between) != "" {
				blocks = append(blocks, markdownBlock{text: between, isRaw: true})
			}
		}

		tag := strings.TrimSpace(remaining[loc[2]:loc[3]])
		afterStart := remaining[loc[1]:]

		var (
			parsed  Value
			content string
		)

		ends := mdTagEnd.FindAllStringIndex(afterStart, -1)
		if len(ends) == 0 {
			shouldLoop = false
			content = strings.TrimSpace(afterStart)
			remaining = ""
		} else {
			chosen := ends[0]
			content = strings.TrimSpace(afterStart[:chosen[0]])

			for _, end := range ends {
				candidate := strings.TrimSpace(afterStart[:end[0]])

				v, err := parseFunc(candidate, opts.next(modeMarkdown), false)
				if err == nil {
					parsed = v
					chosen = end
					content = candidate

					break
				}
			}

			remaining = afterStart[chosen[1]:]
		}

		if parsed == nil {
			v, err := parseFunc(content, opts.next(modeMarkdown), false)
			if err != nil {
				continue
			}

			parsed = v
		}

		blocks = append(blocks, markdownBlock{tag: tag, value: parsed})
	}

	if len(blocks) == 0 {
		return nil, errNoMarkdown
	}

	if strings.TrimSpace(remaining) != "" {
		blocks = append(blocks, markdownBlock{text: remaining, isRaw: true})
	}

	return blocks, nil
}
