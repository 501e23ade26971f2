package test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Prompter answers password prompts from a script and records printed lines.
type Prompter struct {
	mu        sync.Mutex
	Passwords []string
	Lines     []string
}

func NewPrompter(passwords ...string) *Prompter {
	return &Prompter{Passwords: passwords}
}

func (p *Prompter) Password(_ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.Passwords) == 0 {
		return "", errors.New("no more input")
	}

	pw := p.Passwords[0]
	p.Passwords = p.Passwords[1:]

	return pw, nil
}

func (p *Prompter) Println(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	parts := make([]string, 0, len(a))
	for _, v := range a {
		parts = append(parts, fmt.Sprint(v))
	}
	p.Lines = append(p.Lines, strings.Join(parts, " "))
}

// Output returns all printed lines joined by newlines.
func (p *Prompter) Output() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return strings.Join(p.Lines, "\n")
}
