package cli

import "strings"

// ArrayFlag collects every occurrence of a repeatable flag.
type ArrayFlag []string

func (i *ArrayFlag) String() string {
	return strings.Join(*i, ", ")
}

func (i *ArrayFlag) Set(value string) error {
	*i = append(*i, value)
	return nil
}
