package builder

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mdinline/internal/config"
	"mdinline/internal/processor"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/skratchdot/open-golang/open"
)

// Streams are the standard streams a Builder reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Builder runs one processing job described by a Config
type Builder struct {
	config    config.Config
	streams   Streams
	logger    *log.Logger
	processor *processor.Processor

	copyToClipboard func(string) error
	openFile        func(string) error
}

// New creates a new Builder instance
func New(cfg config.Config, streams Streams, logger *log.Logger) (*Builder, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	baseDir, err := cfg.BaseDir()
	if err != nil {
		return nil, err
	}
	return &Builder{
		config:  cfg,
		streams: streams,
		logger:  logger,
		processor: processor.New(processor.Options{
			Clean:   cfg.Clean,
			BaseDir: baseDir,
			Logger:  logger,
		}),
		copyToClipboard: clipboard.WriteAll,
		openFile:        open.Run,
	}, nil
}

// Build checks, transforms or edits the input depending on the config.
func (b *Builder) Build() error {
	switch {
	case b.config.Check:
		return b.check()
	case b.config.InPlace:
		return b.editInPlace()
	default:
		return b.writeOutput()
	}
}

func (b *Builder) check() error {
	if b.config.IsStdin() {
		return b.processor.Check(processor.ReadLines(b.streams.In))
	}
	if err := b.checkFile(b.config.Input); err != nil {
		return err
	}
	b.status(color.FgGreen, "OK", b.config.Input)
	return nil
}

// checkFile validates the directives of path without writing anything.
func (b *Builder) checkFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	b.logger.Debug("checking directives", "file", path)
	return b.processor.Check(processor.ReadLines(f))
}

// writeOutput streams the result to standard output. Named input files are
// checked first; standard input can only be read once and is not.
func (b *Builder) writeOutput() error {
	in := b.streams.In
	if !b.config.IsStdin() {
		if err := b.checkFile(b.config.Input); err != nil {
			return err
		}
		f, err := os.Open(b.config.Input)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := bufio.NewWriter(b.streams.Out)
	var captured bytes.Buffer
	var w io.Writer = out
	if b.config.Clipboard {
		w = io.MultiWriter(out, &captured)
	}

	if _, err := b.processor.Write(w, processor.ReadLines(in)); err != nil {
		out.Flush()
		return err
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return b.toClipboard(captured.String())
}

// editInPlace rewrites the input file. The result goes to a temporary file
// next to the input which replaces it only once processing has succeeded.
func (b *Builder) editInPlace() error {
	path := b.config.Input
	if err := b.checkFile(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	out := bufio.NewWriter(tmp)
	var captured bytes.Buffer
	var w io.Writer = out
	if b.config.Clipboard {
		w = io.MultiWriter(out, &captured)
	}

	written, err := b.processor.Write(w, processor.ReadLines(in))
	if err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	in.Close()

	if ext := b.config.BackupExt; ext != "" {
		if err := b.copyFile(path, path+ext); err != nil {
			return fmt.Errorf("writing backup %s: %w", path+ext, err)
		}
		b.logger.Debug("backup written", "file", path+ext)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	committed = true

	b.logger.Debug("file rewritten", "file", path, "bytes", written)
	verb := "Inlined"
	if b.config.Clean {
		verb = "Cleaned"
	}
	b.status(color.FgGreen, verb, path)

	if err := b.toClipboard(captured.String()); err != nil {
		return err
	}
	if b.config.Open {
		if err := b.openFile(path); err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
	}
	return nil
}

func (b *Builder) toClipboard(content string) error {
	if !b.config.Clipboard {
		return nil
	}
	if err := b.copyToClipboard(content); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	b.status(color.FgCyan, "Copied", "result to clipboard")
	return nil
}

// status prints a coloured one-line message to the error stream, keeping
// standard output for the document itself.
func (b *Builder) status(attr color.Attribute, label, detail string) {
	c := color.New(attr, color.Bold)
	fmt.Fprintf(b.streams.Err, "%s %s\n", c.Sprint(label), detail)
}

// copyFile copies a single file from src to dst
func (b *Builder) copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	// Copy file permissions
	sourceInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, sourceInfo.Mode())
}
