package assistant

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/AIter-Team/Flo/action"
)

// InstructionLibrary serves procedural task instructions (how to fill a tax
// form, how to dispute a charge) from markdown files in a directory. Files
// are loaded once and cached.
type InstructionLibrary struct {
	dir string

	once    sync.Once
	loadErr error
	entries map[string]string
}

// NewInstructionLibrary creates a library over dir. The directory is read
// lazily on first use.
func NewInstructionLibrary(dir string) *InstructionLibrary {
	return &InstructionLibrary{dir: dir}
}

func (l *InstructionLibrary) load() error {
	l.once.Do(func() {
		l.entries = map[string]string{}
		files, err := filepath.Glob(filepath.Join(l.dir, "*.md"))
		if err != nil {
			l.loadErr = err
			return
		}
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				l.loadErr = fmt.Errorf("read instruction %s: %w", file, err)
				return
			}
			name := strings.TrimSuffix(filepath.Base(file), ".md")
			l.entries[name] = string(data)
		}
	})
	return l.loadErr
}

// Topics returns the available instruction names, sorted.
func (l *InstructionLibrary) Topics() ([]string, error) {
	if err := l.load(); err != nil {
		return nil, err
	}
	topics := make([]string, 0, len(l.entries))
	for name := range l.entries {
		topics = append(topics, name)
	}
	sort.Strings(topics)
	return topics, nil
}

// Instruction returns the instruction text for one topic.
func (l *InstructionLibrary) Instruction(topic string) (string, error) {
	if err := l.load(); err != nil {
		return "", err
	}
	text, ok := l.entries[topic]
	if !ok {
		return "", fmt.Errorf("no instruction for topic %q", topic)
	}
	return text, nil
}

type availableInstructionsArgs struct{}

// NewAvailableInstructionsAction lists the topics the library can explain.
func NewAvailableInstructionsAction(library *InstructionLibrary) action.Action {
	return action.NewFuncActionFromStruct(
		"check_available_instructions",
		"List the task topics the assistant has step-by-step instructions for.",
		availableInstructionsArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			topics, err := library.Topics()
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"topics": topics}), nil
		},
	)
}

type taskInstructionArgs struct {
	Topic string `json:"topic" description:"Topic name from check_available_instructions"`
}

// NewTaskInstructionAction fetches the step-by-step instruction for a topic.
func NewTaskInstructionAction(library *InstructionLibrary) action.Action {
	return action.NewFuncActionFromStruct(
		"get_task_instruction",
		"Fetch the step-by-step instruction text for a task topic.",
		taskInstructionArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			topic := argString(args, "topic", "")
			text, err := library.Instruction(topic)
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"topic": topic, "instruction": text}), nil
		},
	)
}
