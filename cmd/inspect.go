package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chrisuehlinger/typeddom/dom"
	"github.com/chrisuehlinger/typeddom/js"
	"github.com/chrisuehlinger/typeddom/network"
	"github.com/chrisuehlinger/typeddom/probe"
)

func getInspectCmd(gs *globalState) *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect FILE|URL",
		Short: "Report the typed state of the HTML elements in a document",
		Long: `Inspect loads a document into the DOM host, runs its scripts when
--run-scripts is set, then --script if given, and prints a report of every
HTML element matching --selector.

The document may be a local path or a file:, data:, http: or https: URL.

Example:
  domprobe inspect page.html
  domprobe inspect https://example.com/ --run-scripts --format text
  domprobe inspect page.html --selector 'form *' --script setup.js`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), gs, args[0])
		},
	}
	inspectCmd.Flags().AddFlagSet(inspectFlagSet())
	return inspectCmd
}

func inspectFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.StringP("selector", "s", "body *", "CSS selector of the elements to report")
	flags.String("script", "", "JavaScript file or URL to run against the document before inspecting")
	flags.Bool("run-scripts", false, "run the document's own classic scripts after loading it")
	flags.StringP("format", "f", "yaml", "output format, yaml or text")
	flags.String("url", "", "document URL reported to scripts (default: the URL the document was loaded from)")
	flags.String("access-key-modifiers", "Alt+Shift", "modifier prefix reported by accessKeyLabel")
	flags.Duration("settle", time.Second, "virtual time to advance after the scripts ran, firing the timers they set")
	flags.Duration("timeout", 30*time.Second, "timeout of each HTTP request")
	flags.String("user-agent", "domprobe/1.0", "User-Agent header sent with HTTP requests")
	flags.String("cache-dir", "", "keep fetched http(s) resources in this directory and reuse them on later runs")
	return flags
}

func runInspect(ctx context.Context, gs *globalState, ref string) error {
	v := gs.config
	format := v.GetString("format")
	if format != "yaml" && format != "text" {
		return fmt.Errorf("unsupported format %q", format)
	}

	client, err := network.NewClient(
		network.WithTimeout(v.GetDuration("timeout")),
		network.WithUserAgent(v.GetString("user-agent")),
	)
	if err != nil {
		return err
	}
	log := gs.logger.WithField("document", ref)
	loaderOpts := []network.LoaderOption{network.WithLogger(log)}
	if dir := v.GetString("cache-dir"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cache dir: %w", err)
		}
		loaderOpts = append(loaderOpts, network.WithCache(afero.NewBasePathFs(afero.NewOsFs(), dir)))
	}
	loader := network.NewLoader(client, loaderOpts...)

	res, err := loader.Load(ctx, ref)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	if !network.IsHTMLContentType(res.ContentType) {
		log.WithField("contentType", res.ContentType).Warn("document is not served as HTML")
	}
	markup, err := res.UTF8()
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	docURL := v.GetString("url")
	if docURL == "" {
		docURL = res.URL
	}
	rt := js.NewRuntime(js.Options{
		Logger:             log,
		AccessKeyModifiers: v.GetString("access-key-modifiers"),
		URL:                docURL,
	})
	if err := rt.LoadHTML(bytes.NewReader(markup)); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	log.WithField("url", docURL).Debug("document loaded")

	if v.GetBool("run-scripts") {
		if err := runPageScripts(ctx, log, loader, rt); err != nil {
			return err
		}
	}

	if script := v.GetString("script"); script != "" {
		src, err := loader.Load(ctx, script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		code, err := src.UTF8()
		if err != nil {
			return fmt.Errorf("decode script: %w", err)
		}
		if err := rt.RunScript(script, string(code)); err != nil {
			return fmt.Errorf("run script: %w", err)
		}
		log.WithField("script", script).Debug("script finished")
	}
	ran, err := rt.Settle(ctx, v.GetDuration("settle"))
	if err != nil {
		return fmt.Errorf("settle timers: %w", err)
	}
	log.WithFields(logrus.Fields{"ran": ran, "pending": rt.PendingTimers()}).Debug("timers settled")
	for _, err := range rt.Errors() {
		log.WithError(err).Warn("error raised while the script ran")
	}

	doc, ok := dom.GlobalDocument(rt.VM()).Get()
	if !ok {
		return errors.New("host defines no document")
	}
	report, err := probe.Inspect(doc, v.GetString("selector"))
	if err != nil {
		return err
	}
	log.WithField("elements", len(report.Elements)).Debug("inspected")

	if format == "text" {
		noColor := v.GetBool("no-color") || !gs.outTTY
		return probe.WriteText(gs.stdout, report, probe.Palette{
			Heading: getColor(noColor, color.FgCyan, color.Bold),
			Key:     getColor(noColor, color.FgHiBlack),
			Value:   getColor(noColor, color.Reset),
			Warn:    getColor(noColor, color.FgYellow),
		})
	}
	return probe.WriteYAML(gs.stdout, report)
}

// runPageScripts runs the document's scripts. A page script that fails to
// load is logged and skipped.
func runPageScripts(ctx context.Context, log logrus.FieldLogger, loader *network.Loader, rt *js.Runtime) error {
	doc, ok := dom.GlobalDocument(rt.VM()).Get()
	if !ok {
		return errors.New("host defines no document")
	}
	scripts, err := network.PageScripts(ctx, loader, doc)
	if err != nil {
		return fmt.Errorf("collect page scripts: %w", err)
	}
	for i, s := range scripts {
		name := s.Name(i)
		if s.Err != nil {
			log.WithError(s.Err).WithField("script", name).Warn("page script failed to load")
			continue
		}
		if err := rt.RunScript(name, s.Source); err != nil {
			continue // left in rt.Errors()
		}
		log.WithField("script", name).Debug("page script finished")
	}
	return nil
}
