// Package help provides topic-based reference documentation for the
// language, accessible via `monkey describe`.
package help

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	merrors "github.com/sambeau/monkey/pkg/monkey/errors"
	"github.com/sambeau/monkey/pkg/monkey/evaluator"
)

// TopicResult is one page of help: either a list or a single entry.
type TopicResult struct {
	Kind        string                   `json:"kind"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Builtins    []evaluator.BuiltinInfo  `json:"builtins,omitempty"`
	Operators   []evaluator.OperatorInfo `json:"operators,omitempty"`
	Keywords    []KeywordInfo            `json:"keywords,omitempty"`
	Types       []evaluator.TypeInfo     `json:"types,omitempty"`
	Params      []string                 `json:"params,omitempty"`
	Arity       string                   `json:"arity,omitempty"`
	Category    string                   `json:"category,omitempty"`
	Example     string                   `json:"example,omitempty"`
}

// KeywordInfo describes a reserved word.
type KeywordInfo struct {
	Keyword     string `json:"keyword"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

var keywordMetadata = map[string]KeywordInfo{
	"let":    {Keyword: "let", Description: "Bind a name in the current scope", Example: "let x = 5;"},
	"fn":     {Keyword: "fn", Description: "Function literal; closes over its defining scope", Example: "fn(a, b) { a + b }"},
	"if":     {Keyword: "if", Description: "Conditional expression; null when no branch runs", Example: "if (x > 1) { x } else { 1 }"},
	"else":   {Keyword: "else", Description: "Alternative branch of an if expression", Example: "if (x) { 1 } else { 2 }"},
	"return": {Keyword: "return", Description: "Leave the enclosing function with a value", Example: "return x * 2;"},
	"true":   {Keyword: "true", Description: "Boolean true", Example: "!true"},
	"false":  {Keyword: "false", Description: "Boolean false", Example: "!false"},
}

// DescribeTopic returns help information for the given topic.
// Topics are the lists (builtins, operators, keywords, types), a builtin
// name, a keyword, an operator symbol or a type name.
func DescribeTopic(topic string) (*TopicResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("no topic specified (try: builtins, operators, keywords, types, len)")
	}

	switch topic {
	case "builtins":
		return describeBuiltins(), nil
	case "operators":
		return describeOperators(), nil
	case "keywords":
		return describeKeywords(), nil
	case "types":
		return describeTypes(), nil
	}

	if result := builtinTopic(topic); result != nil {
		return result, nil
	}
	if info, ok := keywordMetadata[topic]; ok {
		return &TopicResult{
			Kind:        "keyword",
			Name:        info.Keyword,
			Description: info.Description,
			Example:     info.Example,
		}, nil
	}
	if info, ok := evaluator.OperatorMetadata[topic]; ok {
		return &TopicResult{
			Kind:        "operator",
			Name:        info.Symbol,
			Description: info.Description,
			Category:    info.Category,
		}, nil
	}
	for _, info := range evaluator.TypeMetadata {
		if strings.EqualFold(info.Name, topic) {
			return &TopicResult{
				Kind:        "type",
				Name:        info.Name,
				Description: info.Description,
			}, nil
		}
	}

	return nil, unknownTopicError(topic)
}

func describeBuiltins() *TopicResult {
	return &TopicResult{
		Kind: "builtin-list",
		Name: "builtins",
		Builtins: slices.SortedFunc(maps.Values(evaluator.BuiltinMetadata), func(x, y evaluator.BuiltinInfo) int {
			return cmp.Or(cmp.Compare(x.Category, y.Category), cmp.Compare(x.Name, y.Name))
		}),
	}
}

func describeOperators() *TopicResult {
	return &TopicResult{
		Kind: "operator-list",
		Name: "operators",
		Operators: slices.SortedFunc(maps.Values(evaluator.OperatorMetadata), func(x, y evaluator.OperatorInfo) int {
			return cmp.Or(cmp.Compare(x.Category, y.Category), cmp.Compare(x.Symbol, y.Symbol))
		}),
	}
}

func describeKeywords() *TopicResult {
	return &TopicResult{
		Kind: "keyword-list",
		Name: "keywords",
		Keywords: slices.SortedFunc(maps.Values(keywordMetadata), func(x, y KeywordInfo) int {
			return cmp.Compare(x.Keyword, y.Keyword)
		}),
	}
}

func describeTypes() *TopicResult {
	types := make([]evaluator.TypeInfo, len(evaluator.TypeMetadata))
	copy(types, evaluator.TypeMetadata)
	return &TopicResult{
		Kind:  "type-list",
		Name:  "types",
		Types: types,
	}
}

func builtinTopic(name string) *TopicResult {
	info, ok := evaluator.BuiltinMetadata[name]
	if !ok {
		return nil
	}
	return &TopicResult{
		Kind:        "builtin",
		Name:        info.Name,
		Description: info.Description,
		Params:      info.Params,
		Arity:       info.Arity,
		Category:    info.Category,
	}
}

// allTopics lists every name DescribeTopic accepts, sorted.
func allTopics() []string {
	topics := []string{"builtins", "operators", "keywords", "types"}
	topics = slices.AppendSeq(topics, maps.Keys(evaluator.BuiltinMetadata))
	topics = slices.AppendSeq(topics, maps.Keys(keywordMetadata))
	for _, info := range evaluator.TypeMetadata {
		topics = append(topics, strings.ToLower(info.Name))
	}
	slices.Sort(topics)
	return topics
}

// unknownTopicError suggests close topic names by edit distance
func unknownTopicError(topic string) error {
	suggestions := merrors.FindTopMatches(strings.ToLower(topic), allTopics(), 3)
	if len(suggestions) > 0 {
		return fmt.Errorf("unknown topic %q (did you mean %s?)", topic, strings.Join(suggestions, ", "))
	}
	return fmt.Errorf("unknown topic %q (try builtins, operators, keywords or types)", topic)
}
