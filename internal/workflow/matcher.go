package workflow

import "strings"

// Matcher decides whether a binding applies to a task.
type Matcher interface {
	Matches(task string) bool
	String() string
}

type keywords []string

// Keywords matches when the task contains any of words, ignoring case.
func Keywords(words ...string) Matcher {
	lowered := make(keywords, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	return lowered
}

func (k keywords) Matches(task string) bool {
	task = strings.ToLower(task)
	for _, w := range k {
		if strings.Contains(task, w) {
			return true
		}
	}
	return false
}

func (k keywords) String() string {
	return strings.Join(k, " | ")
}

type always struct{}

// Always matches every task. Use it as the last branch of a group.
func Always() Matcher {
	return always{}
}

func (always) Matches(string) bool { return true }
func (always) String() string      { return "*" }
