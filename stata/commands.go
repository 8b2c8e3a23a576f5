package stata

import "fmt"

// CommonCommands maps frequent Stata commands to short descriptions, used
// for help output and code detection context.
var CommonCommands = map[string]string{
	"regress":   "Linear regression",
	"summarize": "Summary statistics",
	"tabulate":  "Frequency tables",
	"generate":  "Create new variables",
	"replace":   "Replace variable values",
	"drop":      "Drop variables or observations",
	"keep":      "Keep variables or observations",
	"merge":     "Merge datasets",
	"append":    "Append datasets",
	"collapse":  "Make dataset of summary statistics",
	"reshape":   "Convert data from wide to long or vice versa",
	"foreach":   "Loop over items",
	"forvalues": "Loop over consecutive values",
	"if":        "Conditional execution",
	"egen":      "Extensions to generate",
	"bysort":    "Sort and process by groups",
}

// commandPrompts maps each assistant command to its prompt template.
var commandPrompts = map[string]string{
	"explain":  "Please explain this Stata code:\n\n%s",
	"fix":      "Please debug and fix this Stata code:\n\n%s",
	"optimize": "Please suggest optimizations for this Stata code:\n\n%s",
}

// CommandNames lists the assistant commands in display order.
var CommandNames = []string{"explain", "fix", "optimize"}

// IsCommand reports whether name is a recognized assistant command.
func IsCommand(name string) bool {
	_, ok := commandPrompts[name]
	return ok
}

// CommandPrompt builds the generation prompt for a named command applied
// to code. Unknown names are an error so the server can reject them.
func CommandPrompt(name, code string) (string, error) {
	tmpl, ok := commandPrompts[name]
	if !ok {
		return "", fmt.Errorf("unknown command: %s", name)
	}
	return fmt.Sprintf(tmpl, code), nil
}
