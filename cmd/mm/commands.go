package main

import (
	"github.com/scott-cotton/cli"
)

// MainCommand builds the mm root command and wires every subcommand
// named in spec §6's CLI surface.
func MainCommand() *cli.Command {
	cfg := &MainConfig{Root: "."}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "mm").
		WithSynopsis("mm [-C dir] <command> [args]").
		WithDescription("mm compiles and verifies a Metamath-style proof library.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mmMain(cfg, cc, args)
		}).
		WithSubs(
			CompileCommand(cfg),
			AddSdCommand(cfg),
			AddAxCommand(cfg),
			AddCommand(cfg),
			VerifyCommand(cfg),
			EditCommand(cfg),
			FlagCommand(cfg),
		)
}

type CompileConfig struct {
	*MainConfig
	Compile *cli.Command
}

func CompileCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CompileConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Compile, "compile").
		WithSynopsis("compile").
		WithDescription("compile the library root's order.txt from scratch and commit the archive").
		WithRun(func(cc *cli.Context, args []string) error {
			return compileRun(cfg, cc, args)
		})
}

type AddSdConfig struct {
	*MainConfig
	AddSd *cli.Command
}

func AddSdCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &AddSdConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.AddSd, "add_sd").
		WithSynopsis("add_sd <path>").
		WithDescription("admit a Syntax Definition file into the committed library").
		WithRun(func(cc *cli.Context, args []string) error {
			return addSdRun(cfg, cc, args)
		})
}

type AddAxConfig struct {
	*MainConfig
	AddAx *cli.Command
}

func AddAxCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &AddAxConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.AddAx, "add_ax").
		WithSynopsis("add_ax <path>").
		WithDescription("admit an Axiom file into the committed library").
		WithRun(func(cc *cli.Context, args []string) error {
			return addAxRun(cfg, cc, args)
		})
}

type AddConfig struct {
	*MainConfig
	Add *cli.Command
}

func AddCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &AddConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Add, "add").
		WithSynopsis("add <path>").
		WithDescription("verify a Theorem file's proof and, on success, commit it").
		WithRun(func(cc *cli.Context, args []string) error {
			return addRun(cfg, cc, args)
		})
}

type VerifyConfig struct {
	*MainConfig
	Verify *cli.Command
}

func VerifyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &VerifyConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Verify, "verify").
		WithSynopsis("verify <path>").
		WithDescription("verify a Theorem file's proof against the committed library without writing the archive back").
		WithRun(func(cc *cli.Context, args []string) error {
			return verifyRun(cfg, cc, args)
		})
}

type EditConfig struct {
	*MainConfig
	Edit *cli.Command
}

func EditCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EditConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Edit, "edit").
		WithSynopsis("edit").
		WithDescription("open the root's settings file in $EDITOR (the TUI editor itself is out of scope)").
		WithRun(func(cc *cli.Context, args []string) error {
			return editRun(cfg, cc, args)
		})
}

type FlagConfig struct {
	*MainConfig
	Flag *cli.Command
}

func FlagCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FlagConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Flag, "flag").
		WithSynopsis("flag [name [value]]").
		WithDescription("list, read or set one settings-file key").
		WithRun(func(cc *cli.Context, args []string) error {
			return flagRun(cfg, cc, args)
		})
}
