package main

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dropzone/internal/errors"
	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/toast"
	"github.com/vango-dev/dropzone/pkg/upload"
)

type checkOptions struct {
	fileSize   float64
	singleFile bool
	image      bool
}

func checkCmd() *cobra.Command {
	opts := checkOptions{fileSize: dropzone.DefaultFileSize}

	cmd := &cobra.Command{
		Use:   "check <files...>",
		Short: "Check local files against the size limit",
		Long: `Check local files the way the widget checks a picked batch.

The files form one batch: single-file mode keeps only the first one,
every file is compared with the size limit, and the size advisory is
printed once when any file is too large.`,
		Example: `  dropzone check report.pdf
  dropzone check --file-size 2 *.png
  dropzone check --image --single-file photo.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runCheck(cmd.OutOrStdout(), args, opts)
			if err != nil {
				return err
			}
			if len(res.Rejected) > 0 {
				return errors.Newf(errors.CategoryCLI, "%d of %d files exceed %g MiB",
					len(res.Rejected), len(res.Accepted)+len(res.Rejected), opts.fileSize)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.fileSize, "file-size", opts.fileSize, "Maximum size per file in MiB")
	cmd.Flags().BoolVar(&opts.singleFile, "single-file", false, "Keep only the first file")
	cmd.Flags().BoolVar(&opts.image, "image", false, "Check as an image batch")

	return cmd
}

// runCheck stats paths into a metadata-only batch and picks it into a
// widget. Advisories and the verdict for each file are written to out.
func runCheck(out io.Writer, paths []string, opts checkOptions) (dropzone.Result, error) {
	batch := make([]*upload.File, 0, len(paths))
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return dropzone.Result{}, errors.New("E180").WithDetail(p).Wrap(err)
		}
		if fi.IsDir() {
			return dropzone.Result{}, errors.New("E180").
				WithDetail(p + " is a directory").
				WithSuggestion("Pass files, not directories")
		}
		name := filepath.Base(p)
		batch = append(batch, upload.NewFile(nil, p, name, mime.TypeByExtension(filepath.Ext(name)), fi.Size()))
	}

	domain := dropzone.DomainFile
	if opts.image {
		domain = dropzone.DomainImage
	}
	domainOpts := &dropzone.DomainOptions{Visible: true, SingleFile: opts.singleFile}
	cfg := dropzone.Config{FileSize: opts.fileSize}
	if domain == dropzone.DomainImage {
		cfg.Image = domainOpts
	} else {
		cfg.File = domainOpts
	}

	queue := toast.NewQueue(toast.WithEmitter(toast.EmitterFunc(func(_ string, data any) {
		payload, _ := data.(map[string]any)
		fmt.Fprintf(out, "\033[33m⚠\033[0m %v: %v\n", payload["summary"], payload["detail"])
	})))

	w := dropzone.New(cfg, dropzone.WithNotifier(queue))
	defer w.Close()

	res := w.Pick(domain, batch)
	for _, f := range res.Accepted {
		fmt.Fprintf(out, "\033[32m✓\033[0m %s (%s)\n", f.Name(), formatSize(f.Size))
	}
	for _, f := range res.Rejected {
		fmt.Fprintf(out, "\033[31m✗\033[0m %s (%s)\n", f.Name(), formatSize(f.Size))
	}
	if res.Truncated > 0 {
		fmt.Fprintf(out, "  %d more files ignored in single-file mode\n", res.Truncated)
	}
	return res, nil
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
