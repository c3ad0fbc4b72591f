package compiler

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/tms/pkg/domain"
)

// maxLineSize bounds a single configuration line (long tapes live on one line).
const maxLineSize = 16 * 1024 * 1024

// Parser converts line-oriented machine configurations into a Program.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the configuration once, sequentially, and returns the loaded Program.
//
// The kind of a line is decided by its token count: 2 tokens set the initial state
// and tape, 1 token sets the halt state, 5 tokens append an instruction. Lines
// starting with '#' and blank lines are skipped. Later state/tape and halt lines
// overwrite earlier ones. The first error stops the parse and no Program is returned.
func (p *Parser) Parse(r io.Reader) (*domain.Program, error) {
	prog := &domain.Program{
		Tape:         []domain.Symbol{},
		Instructions: []domain.Instruction{},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		tokens := strings.Fields(line)
		switch len(tokens) {
		case 2:
			if !utf8.ValidString(tokens[1]) {
				return nil, &domain.ConfigError{
					Kind:    domain.ConfigMalformedSymbol,
					Line:    lineNo,
					Content: tokens[1],
				}
			}
			prog.State = tokens[0]
			prog.Tape = domain.ParseTape(tokens[1])
		case 1:
			prog.HaltState = tokens[0]
		case 5:
			inst, err := parseInstruction(tokens, lineNo, line)
			if err != nil {
				return nil, err
			}
			prog.Instructions = append(prog.Instructions, inst)
		default:
			return nil, &domain.ConfigError{
				Kind:    domain.ConfigMalformedLine,
				Line:    lineNo,
				Content: line,
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &domain.ConfigError{Kind: domain.ConfigIo, Err: err}
	}

	return prog, nil
}

func parseInstruction(tokens []string, lineNo int, line string) (domain.Instruction, error) {
	current, err := parseSymbol(tokens[1], lineNo)
	if err != nil {
		return domain.Instruction{}, err
	}
	next, err := parseSymbol(tokens[3], lineNo)
	if err != nil {
		return domain.Instruction{}, err
	}
	dir, ok := domain.ParseDirection(tokens[4])
	if !ok {
		return domain.Instruction{}, &domain.ConfigError{
			Kind:    domain.ConfigInvalidDirection,
			Line:    lineNo,
			Content: tokens[4],
		}
	}

	return domain.Instruction{
		CurrentState:  tokens[0],
		CurrentSymbol: current,
		NewState:      tokens[2],
		NewSymbol:     next,
		Direction:     dir,
	}, nil
}

// parseSymbol rejects symbol fields that are not exactly one character.
func parseSymbol(token string, lineNo int) (domain.Symbol, error) {
	r, size := utf8.DecodeRuneInString(token)
	if size != len(token) || r == utf8.RuneError {
		return 0, &domain.ConfigError{
			Kind:    domain.ConfigMalformedSymbol,
			Line:    lineNo,
			Content: token,
		}
	}
	return domain.Symbol(r), nil
}
