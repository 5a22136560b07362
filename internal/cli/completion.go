package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs one entry.
type FlagCompletion struct {
	Long        string   // long flag name without "--" (e.g., "frames")
	Short       string   // short flag without "-" (e.g., "q")
	Help        string   // description text
	Values      []string // suggested completion values (nil = boolean/no suggestions)
	ValueName   string   // label for the value in zsh (e.g., "count", "duration")
	IsFile      bool     // true if the flag takes a file path
	IsDir       bool     // true if the flag takes a directory
	IsIntegrand bool     // true if values come from the preset list (dynamic)
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "frames", Help: "Number of refinement levels", Values: []string{"5", "9", "20", "50"}, ValueName: "count"},
	{Long: "integrand", Help: "Integrand preset", IsIntegrand: true, ValueName: "preset"},
	{Long: "domain", Help: "Integration rectangle xmin,xmax,ymin,ymax", ValueName: "bounds"},
	{Long: "workers", Help: "Concurrent level evaluations", ValueName: "count"},
	{Long: "interval", Help: "Pause between frames", Values: []string{"0s", "250ms", "500ms", "1s", "2s"}, ValueName: "duration"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "output-dir", Short: "o", Help: "Directory for PNG frames", IsDir: true, ValueName: "dir"},
	{Long: "gif", Help: "Animated GIF output file", IsFile: true, ValueName: "file"},
	{Long: "width", Help: "Frame width in pixels", Values: []string{"640", "960", "1280"}, ValueName: "pixels"},
	{Long: "height", Help: "Frame height in pixels", Values: []string{"480", "720", "960"}, ValueName: "pixels"},
	{Long: "oracle-order", Help: "Fixed Gauss-Legendre order (0 = adaptive)", Values: []string{"0", "16", "64", "256"}, ValueName: "order"},
	{Long: "oracle-tolerance", Help: "Adaptive reference tolerance", ValueName: "tolerance"},
	{Long: "tui", Help: "Interactive dashboard"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts"},
	{Long: "verbose", Short: "v", Help: "Debug logging"},
	{Long: "details", Short: "d", Help: "Show convergence details"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "no-reference", Help: "Hide the reference comparison"},
	{Long: "exact", Help: "Use the closed-form reference value"},
	{Long: "strict", Help: "Fail when the error grows"},
	{Long: "metrics-file", Help: "Prometheus text output file", IsFile: true, ValueName: "file"},
	{Long: "trace-file", Help: "OpenTelemetry span output file", IsFile: true, ValueName: "file"},
	{Long: "config", Help: "YAML configuration file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish").
//   - integrands: List of available preset names.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, integrands []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, integrands)
	case "zsh":
		return generateZshCompletion(out, integrands)
	case "fish":
		return generateFishCompletion(out, integrands)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

// flagNames returns "--long" and "-s" for f, in that order.
func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer, integrands []string) error {
	var opts []string
	var caseBody strings.Builder
	for _, f := range flagRegistry {
		opts = append(opts, flagNames(f)...)

		var body string
		switch {
		case f.IsIntegrand:
			body = `COMPREPLY=( $(compgen -W "${integrands}" -- "${cur}") )`
		case f.IsDir:
			body = `COMPREPLY=( $(compgen -d -- "${cur}") )`
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		default:
			continue
		}
		fmt.Fprintf(&caseBody, "        %s)\n            %s\n            return 0\n            ;;\n",
			strings.Join(flagNames(f), "|"), body)
	}

	script := fmt.Sprintf(`# Bash completion script for riemann
# Add this to your ~/.bashrc or ~/.bash_completion

_riemann_completions() {
    local cur prev opts integrands
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    integrands="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _riemann_completions riemann
`, strings.Join(opts, " "), strings.Join(integrands, " "), caseBody.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer, integrands []string) error {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	script := fmt.Sprintf(`#compdef riemann

# Zsh completion script for riemann
# Add this to your ~/.zshrc or place in $fpath

_riemann() {
    local -a integrands
    integrands=(%s)

    _arguments -s \
%s
}

_riemann "$@"
`, strings.Join(integrands, " "), strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsDir:
		valueSuffix = fmt.Sprintf(":%s:_files -/", f.ValueName)
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsIntegrand:
		valueSuffix = fmt.Sprintf(":%s:($integrands)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer, integrands []string) error {
	lines := []string{
		"# Fish completion script for riemann",
		"# Add this to ~/.config/fish/completions/riemann.fish",
		"",
		"# Disable file completion by default",
		"complete -c riemann -f",
		"",
	}
	list := strings.Join(integrands, " ")
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, list))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, integrandList string) string {
	parts := []string{"complete -c riemann"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile, f.IsDir:
		parts = append(parts, "-rF")
	case f.IsIntegrand:
		parts = append(parts, fmt.Sprintf("-xa '%s'", integrandList))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
