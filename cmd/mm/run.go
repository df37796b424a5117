package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"

	"github.com/mathkernel/mm/diagnose"
	"github.com/mathkernel/mm/driver"
	"github.com/mathkernel/mm/library"
	"github.com/mathkernel/mm/mmerr"
	"github.com/mathkernel/mm/policy"
	"github.com/mathkernel/mm/settings"
	"github.com/mathkernel/mm/termcolor"
)

// hint renders a "closest known rule" line for an Uncompilable error,
// when lib is non-nil and the error carries enough context to extract
// the stuck partial-reduction text. Returns "" when there is nothing
// useful to show.
func hint(err error, lib *library.Library, pal *termcolor.Palette) string {
	var e *mmerr.Error
	if !errors.As(err, &e) || e.Kind != mmerr.Uncompilable || lib == nil || e.Err == nil {
		return ""
	}
	const prefix = "partial state: "
	stuck := e.Err.Error()
	if len(stuck) <= len(prefix) || stuck[:len(prefix)] != prefix {
		return ""
	}
	stuck = stuck[len(prefix):]
	h, ok := diagnose.Closest(stuck, lib.Syntax.Rules)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\n  closest known rule: %s (%s), distance %d",
		pal.Paint(termcolor.Name, h.RuleName), h.Pattern, h.Distance)
}

func checkPolicy(cfg *MainConfig, lib *library.Library, cc *cli.Context, pal *termcolor.Palette) error {
	s, _, err := loadSettings(cfg.Root)
	if err != nil || s.Policy == "" {
		return nil
	}
	prog, err := policy.Compile(s.Policy)
	if err != nil {
		return fmt.Errorf("invalid POLICY expression: %w", err)
	}
	stats := policy.Stats{
		Syntaxes:    len(lib.Syntax.Rules),
		Definitions: len(lib.Definitions),
		Axioms:      len(lib.Axioms),
		Theorems:    len(lib.Theorems),
	}
	ok, err := prog.Check(stats)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %q", pal.Paint(termcolor.Failure, "policy violation"), s.Policy)
	}
	return nil
}

func compileRun(cfg *CompileConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Compile.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: compile takes no arguments", cli.ErrUsage)
	}
	pal := paletteFor(cfg.Root, cc.Out)
	lib, err := driver.New(cfg.Root).Compile()
	if err != nil {
		return fmt.Errorf("%s%s", err, hint(err, lib, pal))
	}
	if err := saveLibrary(cfg.Root, lib); err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "%s: %d syntax rules, %d definitions, %d axioms, %d theorems\n",
		pal.Paint(termcolor.Success, "compiled"),
		len(lib.Syntax.Rules), len(lib.Definitions), len(lib.Axioms), len(lib.Theorems))
	return checkPolicy(cfg.MainConfig, lib, cc, pal)
}

func addSdRun(cfg *AddSdConfig, cc *cli.Context, args []string) error {
	args, err := cfg.AddSd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: add_sd requires exactly one path argument", cli.ErrUsage)
	}
	pal := paletteFor(cfg.Root, cc.Out)
	lib, err := loadLibrary(cfg.Root)
	if err != nil {
		return err
	}
	before := len(lib.Syntax.Rules)
	rule, err := driver.New(cfg.Root).AddSyntax(lib, args[0])
	if err != nil {
		return fmt.Errorf("%s%s", err, hint(err, lib, pal))
	}
	if err := saveLibrary(cfg.Root, lib); err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "%s: %s (rule %d of %d)\n",
		pal.Paint(termcolor.Success, "admitted"), pal.Paint(termcolor.Name, rule.Name), before, len(lib.Syntax.Rules))
	return checkPolicy(cfg.MainConfig, lib, cc, pal)
}

func addAxRun(cfg *AddAxConfig, cc *cli.Context, args []string) error {
	args, err := cfg.AddAx.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: add_ax requires exactly one path argument", cli.ErrUsage)
	}
	pal := paletteFor(cfg.Root, cc.Out)
	lib, err := loadLibrary(cfg.Root)
	if err != nil {
		return err
	}
	before := len(lib.Axioms)
	schema, err := driver.New(cfg.Root).AddAxiom(lib, args[0])
	if err != nil {
		return fmt.Errorf("%s%s", err, hint(err, lib, pal))
	}
	if err := saveLibrary(cfg.Root, lib); err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "%s: %s (axiom %d of %d)\n",
		pal.Paint(termcolor.Success, "admitted"), pal.Paint(termcolor.Name, schema.Name), before, len(lib.Axioms))
	return checkPolicy(cfg.MainConfig, lib, cc, pal)
}

func addRun(cfg *AddConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Add.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: add requires exactly one path argument", cli.ErrUsage)
	}
	pal := paletteFor(cfg.Root, cc.Out)
	lib, err := loadLibrary(cfg.Root)
	if err != nil {
		return err
	}
	before := len(lib.Theorems)
	th, err := driver.New(cfg.Root).AddTheorem(lib, args[0])
	if err != nil {
		return fmt.Errorf("%s%s", err, hint(err, lib, pal))
	}
	if err := saveLibrary(cfg.Root, lib); err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "%s: %s (theorem %d of %d)\n",
		pal.Paint(termcolor.Success, "proven"), pal.Paint(termcolor.Name, th.Name), before, len(lib.Theorems))
	return checkPolicy(cfg.MainConfig, lib, cc, pal)
}

// verifyRun checks one theorem file's proof against the library
// already on disk and reports success or failure, touching nothing on
// disk itself. Grounded on commands.rs's verify(dir, path): it calls
// the same verify_theo as add_theo but, unlike add_theo, never calls
// write_lib — the commit verify_theo makes to the in-memory library is
// discarded with the process instead of being persisted.
func verifyRun(cfg *VerifyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Verify.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: verify requires exactly one path argument", cli.ErrUsage)
	}
	pal := paletteFor(cfg.Root, cc.Out)
	lib, err := loadLibrary(cfg.Root)
	if err != nil {
		return err
	}
	th, err := driver.New(cfg.Root).AddTheorem(lib, args[0])
	if err != nil {
		return fmt.Errorf("%s%s", err, hint(err, lib, pal))
	}
	fmt.Fprintf(cc.Out, "%s: %s\n", pal.Paint(termcolor.Success, "theorem is valid"), pal.Paint(termcolor.Name, th.Name))
	return nil
}

func editRun(cfg *EditConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Edit.Parse(cc, args); err != nil {
		return err
	}
	if err := agent.Listen(agent.Options{}); err != nil {
		fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, settingsPath(cfg.Root))
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return cmd.Run()
}

// flagDescriptions gives each recognized key a one-line help string,
// the second line of `flag NAME`'s report. Grounded on flags.rs's
// flag_description match arms.
var flagDescriptions = map[string]string{
	"COLOR":    "Whether CLI output is colorized",
	"LIB_PATH": "The path to the library directory",
	"SAFE":     "Whether safe mode is activated",
	"POLICY":   "An expr-lang boolean expression checked against library stats after every successful compile or add",
}

// settingsIntro renders every recognized key's current value, one
// line each, omitting the policy line while POLICY is empty — the
// report `flag` with no arguments prints. Grounded on
// flags.rs's settings_intro.
func settingsIntro(s settings.Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\ncolor: %t\n", s.Color)
	fmt.Fprintf(&b, "lib_path: %q\n", s.LibPath)
	fmt.Fprintf(&b, "safe: %t\n", s.Safe)
	if s.Policy != "" {
		fmt.Fprintf(&b, "policy: %s\n", s.Policy)
	}
	return b.String()
}

// flagDescription renders the two-line report `flag NAME` prints: the
// key's current value, then its description. Grounded on flags.rs's
// flag_description.
func flagDescription(s settings.Settings, name string) (string, error) {
	v, err := s.Get(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("\nFlag %s: %s\n  %s", name, v, flagDescriptions[name]), nil
}

// flagRun implements the three-way dispatch of flags.rs's
// handle_flag_command: no name prints the settings intro, a name
// alone prints its value and description, name+value sets and
// persists it.
func flagRun(cfg *FlagConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Flag.Parse(cc, args)
	if err != nil {
		return err
	}
	s, _, err := loadSettings(cfg.Root)
	if err != nil {
		return err
	}
	switch len(args) {
	case 0:
		fmt.Fprint(cc.Out, settingsIntro(s))
		return nil
	case 1:
		text, err := flagDescription(s, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cc.Out, text)
		return nil
	case 2:
		if err := s.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := saveSettings(cfg.Root, s); err != nil {
			return err
		}
		pal := paletteFor(cfg.Root, cc.Out)
		fmt.Fprintf(cc.Out, "%s '%s' to '%s'\n", pal.Paint(termcolor.Success, "successfully set"), args[0], args[1])
		return nil
	default:
		return fmt.Errorf("%w: flag takes at most two arguments", cli.ErrUsage)
	}
}
