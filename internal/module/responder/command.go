package responder

import (
	"errors"
	"strconv"
	"strings"

	"github.com/project-tktt/empleos-bot/internal/common/normalizer"
	"github.com/project-tktt/empleos-bot/internal/domain"
)

var (
	ErrNoTrigger      = errors.New("trigger not found")
	ErrInvalidCommand = errors.New("invalid command")
)

// ThirdArg is the interpretation of the third positional argument, which is
// either a maximum salary or a tag
type ThirdArg struct {
	Kind   ThirdArgKind
	Salary int
	Tag    string
}

type ThirdArgKind int

const (
	ThirdArgNone ThirdArgKind = iota
	ThirdArgSalary
	ThirdArgTag
)

// parseThird reads position 3; anything that is not an integer is a tag
func parseThird(tok string) ThirdArg {
	if n, err := strconv.Atoi(tok); err == nil {
		return ThirdArg{Kind: ThirdArgSalary, Salary: n}
	}
	return ThirdArg{Kind: ThirdArgTag, Tag: normalizer.Fold(tok)}
}

// ParseCommand reads "<trigger> location [min] [max|tag] [tag]" out of a
// comment body. The body must start with the trigger token.
func ParseCommand(body, trigger string) (domain.Query, error) {
	tokens := strings.Fields(body)
	if len(tokens) == 0 || tokens[0] != trigger {
		return domain.Query{}, ErrNoTrigger
	}

	args := tokens[1:]
	if len(args) == 0 || len(args) > 4 {
		return domain.Query{}, ErrInvalidCommand
	}

	q := domain.Query{Location: normalizer.Fold(args[0])}
	if len(args) == 1 {
		return q, nil
	}

	minSalary, err := strconv.Atoi(args[1])
	if err != nil {
		return domain.Query{}, ErrInvalidCommand
	}
	q.MinSalary = &minSalary
	if len(args) == 2 {
		return q, nil
	}

	third := parseThird(args[2])
	if len(args) == 3 {
		switch third.Kind {
		case ThirdArgSalary:
			q.MaxSalary = &third.Salary
		case ThirdArgTag:
			q.Tag = third.Tag
		}
		return q, nil
	}

	// With four arguments the third one must be the maximum
	if third.Kind != ThirdArgSalary {
		return domain.Query{}, ErrInvalidCommand
	}
	q.MaxSalary = &third.Salary
	q.Tag = normalizer.Fold(args[3])
	return q, nil
}
