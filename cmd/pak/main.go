package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	. "github.com/warpfork/go-errcat"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/polydawn/pak"
	"github.com/polydawn/pak/config"
	"github.com/polydawn/pak/fs"
	"github.com/polydawn/pak/fs/gitfs"
	"github.com/polydawn/pak/transmat/pak"
)

/*
	Output serialization formats
*/
const (
	FmtJson = "json"
	FmtDumb = "dumb"
)

type baseCLI struct {
	Format         string // Output api format, eg. json
	Strict         bool   // Reject rather than tolerate lossy or odd archives
	Quiet          bool   // Only warnings, errors, and results
	Verbose        bool   // Debug logs too
	ProgressEnable bool   // Emit progress notification yes/no
	AutoCLI        struct {
		Path string // Directory to pack or archive to unpack
	}
	PackCLI struct {
		Path   string // Directory (or git repo, with GitRev) to pack
		Output string // Archive path override
		GitRev string // Pack this revision of the repo at Path instead of its working tree
	}
	UnpackCLI struct {
		Path   string // Archive to unpack
		Output string // Output dir override
	}
	InspectCLI struct {
		Path string // Archive to list or verify
	}
}

func configurePack(cli *baseCLI, appPack *kingpin.CmdClause) {
	appPack.Arg("path", "Directory to pack").
		Required().
		StringVar(&cli.PackCLI.Path)
	appPack.Flag("output", "Where to write the archive (default: beside the directory, named <dir>.pak)").
		Short('o').
		StringVar(&cli.PackCLI.Output)
	appPack.Flag("git-rev", "Treat the path as a git repository and pack this revision's tree").
		StringVar(&cli.PackCLI.GitRev)
}

func configureUnpack(cli *baseCLI, appUnpack *kingpin.CmdClause) {
	appUnpack.Arg("path", "Archive to unpack").
		Required().
		StringVar(&cli.UnpackCLI.Path)
	appUnpack.Flag("output", "Directory to unpack into (default: beside the archive, named for it without the extension)").
		Short('o').
		StringVar(&cli.UnpackCLI.Output)
}

/*
	Blocks until a sigint is received, then calls cancel.
*/
func CancelOnInterrupt(cancel context.CancelFunc) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	<-signalChan
	cancel()
	signal.Stop(signalChan)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	go CancelOnInterrupt(cancel)
	exitCode := Main(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	os.Exit(int(exitCode))
}

func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) pak.ExitCode {
	cli := baseCLI{}

	app := kingpin.New("pak", "Convert between directories and PACK archives")
	app.HelpFlag.Short('h')

	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	app.Flag("format", "Output api format").
		Default(config.GetOutputFormat()).
		EnumVar(&cli.Format, FmtJson, FmtDumb)
	app.Flag("strict", "Reject table sizes that aren't whole entries, and names too long to store").
		Default(strconv.FormatBool(config.GetStrict())).
		BoolVar(&cli.Strict)
	app.Flag("quiet", "Only report warnings, errors, and results").
		Short('q').
		BoolVar(&cli.Quiet)
	app.Flag("verbose", "Also report debug logs").
		Short('v').
		BoolVar(&cli.Verbose)
	app.Flag("progress", "Emit progress notification").
		BoolVar(&cli.ProgressEnable)

	appAuto := app.Command("auto", "Pack a directory, or unpack an archive file").Default()
	appAuto.Arg("path", "Directory to pack or archive to unpack").
		Required().
		StringVar(&cli.AutoCLI.Path)

	appPack := app.Command("pack", "Pack a directory into an archive")
	configurePack(&cli, appPack)

	appUnpack := app.Command("unpack", "Unpack an archive into a directory")
	configureUnpack(&cli, appUnpack)

	appLs := app.Command("ls", "List the entries of an archive")
	appLs.Arg("path", "Archive to list").
		Required().
		StringVar(&cli.InspectCLI.Path)

	appVerify := app.Command("verify", "Read an archive completely without writing anything")
	appVerify.Arg("path", "Archive to verify").
		Required().
		StringVar(&cli.InspectCLI.Path)

	var termErr error
	app.Terminate(func(status int) {
		termErr = fmt.Errorf("parsing error: %d", status)
	})
	cmd, err := app.Parse(args[1:])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return pak.ExitUsage
	}
	if termErr != nil {
		// Help was requested, or usage was printed; either way, no command runs.
		return pak.ExitUsage
	}

	rend := newRenderer(cli, stdout, stderr)
	var result pak.Event_Result
	switch cmd {
	case appAuto.FullCommand():
		result, err = executeAuto(ctx, cli, rend)
	case appPack.FullCommand():
		result, err = executePack(ctx, cli, rend)
	case appUnpack.FullCommand():
		result, err = executeUnpack(ctx, cli, rend)
	case appLs.FullCommand():
		result, err = executeLs(ctx, cli)
	case appVerify.FullCommand():
		result, err = executeVerify(ctx, cli, rend)
	default:
		panic(fmt.Errorf("pak: unhandled command %q", cmd))
	}
	rend.Wait()
	SerializeResult(cli.Format, result, err, stdout, stderr)
	return pak.ExitCodeForError(err)
}

func options(cli baseCLI, output string) (pak.Options, error) {
	opts := pak.Options{Strict: cli.Strict}
	if output != "" {
		abs, err := absPath(output)
		if err != nil {
			return opts, err
		}
		opts.Output = abs
	}
	return opts, nil
}

// Relative paths are taken from the working directory.
func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", Errorf(pak.ErrUsage, "cannot resolve path %q: %s", p, err)
	}
	return abs, nil
}

func executeAuto(ctx context.Context, cli baseCLI, rend *renderer) (pak.Event_Result, error) {
	path, err := absPath(cli.AutoCLI.Path)
	if err != nil {
		return pak.Event_Result{}, err
	}
	op, err := demuxPath(path)
	if err != nil {
		return pak.Event_Result{}, err
	}
	opts, _ := options(cli, "")
	switch op {
	case opPack:
		archivePath, archiveID, err := paktrans.Pack(ctx, path, opts, rend.Monitor())
		return pak.Event_Result{Path: archivePath, ArchiveID: archiveID}, err
	case opUnpack:
		outputPath, err := paktrans.Unpack(ctx, path, opts, rend.Monitor())
		return pak.Event_Result{Path: outputPath}, err
	default:
		panic("unreachable")
	}
}

func executePack(ctx context.Context, cli baseCLI, rend *renderer) (pak.Event_Result, error) {
	path, err := absPath(cli.PackCLI.Path)
	if err != nil {
		return pak.Event_Result{}, err
	}
	opts, err := options(cli, cli.PackCLI.Output)
	if err != nil {
		return pak.Event_Result{}, err
	}
	if cli.PackCLI.GitRev == "" {
		archivePath, archiveID, err := paktrans.Pack(ctx, path, opts, rend.Monitor())
		return pak.Event_Result{Path: archivePath, ArchiveID: archiveID}, err
	}

	// Packing a git revision: the tree comes from the object store, not the working dir.
	repoPath := fs.MustAbsolutePath(path)
	afs, err := gitfs.Open(repoPath, cli.PackCLI.GitRev)
	switch Category(err) {
	case nil:
		// pass
	case fs.ErrNotExists:
		return pak.Event_Result{}, Errorf(pak.ErrNotFound, "%s", err)
	default:
		return pak.Event_Result{}, Errorf(pak.ErrIO, "cannot read git revision %q: %s", cli.PackCLI.GitRev, err)
	}
	targetPath := opts.Output
	if targetPath == "" {
		target, err := paktrans.PackTargetPath(repoPath)
		if err != nil {
			return pak.Event_Result{}, err
		}
		targetPath = target.String()
	}
	archiveID, err := paktrans.PackTree(ctx, afs, targetPath, opts, rend.Monitor())
	if err != nil {
		return pak.Event_Result{}, err
	}
	return pak.Event_Result{Path: targetPath, ArchiveID: archiveID}, nil
}

func executeUnpack(ctx context.Context, cli baseCLI, rend *renderer) (pak.Event_Result, error) {
	path, err := absPath(cli.UnpackCLI.Path)
	if err != nil {
		return pak.Event_Result{}, err
	}
	opts, err := options(cli, cli.UnpackCLI.Output)
	if err != nil {
		return pak.Event_Result{}, err
	}
	outputPath, err := paktrans.Unpack(ctx, path, opts, rend.Monitor())
	return pak.Event_Result{Path: outputPath}, err
}

func executeLs(ctx context.Context, cli baseCLI) (pak.Event_Result, error) {
	path, err := absPath(cli.InspectCLI.Path)
	if err != nil {
		return pak.Event_Result{}, err
	}
	opts, _ := options(cli, "")
	header, entries, err := paktrans.List(ctx, path, opts)
	if err != nil {
		return pak.Event_Result{}, err
	}
	return pak.Event_Result{Path: path, Listing: listing(header.TableSize, entries)}, nil
}

func executeVerify(ctx context.Context, cli baseCLI, rend *renderer) (pak.Event_Result, error) {
	path, err := absPath(cli.InspectCLI.Path)
	if err != nil {
		return pak.Event_Result{}, err
	}
	opts, _ := options(cli, "")
	archiveID, err := paktrans.Verify(ctx, path, opts, rend.Monitor())
	if err != nil {
		return pak.Event_Result{}, err
	}
	return pak.Event_Result{Path: path, ArchiveID: archiveID}, nil
}
