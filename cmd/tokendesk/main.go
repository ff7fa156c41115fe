/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tokendesk/internal/backend"
	cstore "tokendesk/internal/canvas"
	"tokendesk/internal/config"
	"tokendesk/internal/domain"
	"tokendesk/internal/export"
	applog "tokendesk/internal/log"
	"tokendesk/internal/pack"
	"tokendesk/internal/registry"
	"tokendesk/internal/storage"
	"tokendesk/internal/telemetry"
	"tokendesk/internal/ui"
	"tokendesk/internal/version"
	"tokendesk/internal/watchlist"
)

func usage() {
	fmt.Println("TokenDesk — canvas workspace for token dashboards")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tokendesk version|-v|--version             Show version")
	fmt.Println("  tokendesk ui                               Launch desktop UI (build with -tags fyne for full UI)")
	fmt.Println("  tokendesk init [language]                  Create the data dir and an empty workspace")
	fmt.Println("  tokendesk languages                        List stored workspace languages")
	fmt.Println("  tokendesk inspect <language>               Print a workspace summary")
	fmt.Println("  tokendesk export-pdf <language> <out.pdf>  Export a workspace to PDF")
	fmt.Println("  tokendesk export-png <language> <out.png> [scale]")
	fmt.Println("                                             Export a workspace to PNG")
	fmt.Println("  tokendesk import-watchlist <language> <file>")
	fmt.Println("                                             Import a plain-text watchlist into a workspace")
	fmt.Println("  tokendesk pack <out.zip>                   Archive all workspaces into a zip")
	fmt.Println("  tokendesk unpack <in.zip> [--overwrite]    Restore workspaces from an archive")
	fmt.Println("  tokendesk config                           Show the resolved configuration")
	fmt.Println("  tokendesk serve                            Run the workspace sync server")
}

func main() {
	cfg, cfgPath, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	applog.Init(logOptions(cfg))
	telemetry.InitDefault()
	l := applog.WithComponent("cli")

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())

	case "ui":
		st, cleanup, dir, err := openStore(cfg)
		if err != nil {
			fatal(l, "open storage", err)
		}
		defer cleanup()
		if err := ui.Run(cfg, st, dir); err != nil {
			fatal(l, "ui", err)
		}

	case "init":
		lang := cfg.General.Language
		if len(args) > 2 {
			lang = args[2]
		}
		st, cleanup, dir, err := openStore(cfg)
		if err != nil {
			fatal(l, "open storage", err)
		}
		defer cleanup()
		if _, ok := storage.LoadWorkspace(st, lang); ok {
			fmt.Printf("workspace %q already exists in %s\n", lang, dir)
			return
		}
		if err := storage.SaveWorkspace(st, domain.Empty(lang)); err != nil {
			fatal(l, "init workspace", err)
		}
		fmt.Printf("created empty workspace %q in %s\n", lang, dir)

	case "languages":
		st, cleanup, _, err := openStore(cfg)
		if err != nil {
			fatal(l, "open storage", err)
		}
		defer cleanup()
		keys, err := st.Keys()
		if err != nil {
			fatal(l, "list keys", err)
		}
		for _, k := range keys {
			if lang, ok := strings.CutPrefix(k, storage.WorkspaceKeyPrefix); ok {
				fmt.Println(lang)
			}
		}

	case "inspect":
		if len(args) < 3 {
			fmt.Println("inspect requires <language>")
			usage()
			os.Exit(2)
		}
		st, cleanup, _, err := openStore(cfg)
		if err != nil {
			fatal(l, "open storage", err)
		}
		defer cleanup()
		ws, ok := storage.LoadWorkspace(st, args[2])
		if !ok {
			fmt.Printf("no stored workspace for %q (empty defaults shown)\n", args[2])
		}
		fmt.Printf("Language:     %s\n", ws.Language)
		fmt.Printf("Widgets:      %d\n", len(ws.Widgets))
		fmt.Printf("Annotations:  %d\n", len(ws.Annotations))
		fmt.Printf("Zoom:         %.2f\n", ws.Zoom)
		fmt.Printf("Pan:          (%.1f, %.1f)\n", ws.Pan.X, ws.Pan.Y)
		for _, w := range ws.Widgets {
			fmt.Printf("  [%3d] %-16s at (%.0f, %.0f) %gx%g\n",
				w.ZIndex, w.Type, w.Position.X, w.Position.Y, w.Size.Width, w.Size.Height)
		}

	case "export-pdf":
		if len(args) < 4 {
			fmt.Println("export-pdf requires <language> and <out.pdf>")
			usage()
			os.Exit(2)
		}
		ws := mustLoad(l, cfg, args[2])
		if err := export.WritePDF(ws, args[3], export.PDFOptions{}); err != nil {
			fatal(l, "export pdf", err)
		}
		fmt.Printf("wrote %s\n", args[3])

	case "export-png":
		if len(args) < 4 {
			fmt.Println("export-png requires <language> and <out.png>")
			usage()
			os.Exit(2)
		}
		opt := export.PNGOptions{}
		if len(args) > 4 {
			s, err := strconv.ParseFloat(args[4], 64)
			if err != nil || s <= 0 {
				fmt.Printf("bad scale %q\n", args[4])
				os.Exit(2)
			}
			opt.Scale = s
		}
		ws := mustLoad(l, cfg, args[2])
		if err := export.WritePNG(ws, args[3], opt); err != nil {
			fatal(l, "export png", err)
		}
		fmt.Printf("wrote %s\n", args[3])

	case "import-watchlist":
		if len(args) < 4 {
			fmt.Println("import-watchlist requires <language> and <file>")
			usage()
			os.Exit(2)
		}
		data, err := os.ReadFile(args[3])
		if err != nil {
			fatal(l, "read watchlist", err)
		}
		doc, perrs := watchlist.Parse(string(data))
		for _, pe := range perrs {
			fmt.Fprintf(os.Stderr, "%s:%d: %s\n", args[3], pe.Line, pe.Message)
		}
		if len(doc.Lists) == 0 {
			fmt.Fprintln(os.Stderr, "no watchlist entries found")
			os.Exit(1)
		}
		st, cleanup, _, err := openStore(cfg)
		if err != nil {
			fatal(l, "open storage", err)
		}
		defer cleanup()
		store := cstore.New(cstore.Options{Store: st, Language: args[2]})
		for _, list := range doc.Lists {
			wi, ok := store.AddWidget(registry.Watchlist, nil)
			if !ok {
				fatal(l, "add watchlist widget", fmt.Errorf("unknown widget type"))
			}
			store.UpdateWidget(wi.ID, domain.WidgetPatch{Config: watchlist.WidgetConfig(list)})
			fmt.Printf("imported %q (%d entries)\n", list.Title, len(list.Entries))
		}
		if err := store.SaveNow(); err != nil {
			fatal(l, "save workspace", err)
		}
		store.Close()

	case "pack":
		if len(args) < 3 {
			fmt.Println("pack requires <out.zip>")
			usage()
			os.Exit(2)
		}
		st, cleanup, _, err := openStore(cfg)
		if err != nil {
			fatal(l, "open storage", err)
		}
		defer cleanup()
		n, err := pack.Export(st, args[2])
		if err != nil {
			fatal(l, "pack", err)
		}
		fmt.Printf("archived %d workspaces to %s\n", n, args[2])

	case "unpack":
		if len(args) < 3 {
			fmt.Println("unpack requires <in.zip>")
			usage()
			os.Exit(2)
		}
		overwrite := len(args) > 3 && args[3] == "--overwrite"
		st, cleanup, _, err := openStore(cfg)
		if err != nil {
			fatal(l, "open storage", err)
		}
		defer cleanup()
		n, err := pack.Import(st, args[2], overwrite)
		if err != nil {
			fatal(l, "unpack", err)
		}
		fmt.Printf("restored %d workspaces from %s\n", n, args[2])

	case "config":
		fmt.Printf("Config file:   %s\n", cfgPath)
		fmt.Printf("Language:      %s\n", cfg.General.Language)
		fmt.Printf("Autosave:      %dms\n", cfg.Canvas.AutosaveMs)
		fmt.Printf("Storage:       %s\n", cfg.Storage.Backend)
		dir, err := resolveDataDir(cfg)
		if err == nil {
			fmt.Printf("Data dir:      %s\n", dir)
		}
		fmt.Printf("Sync enabled:  %v\n", cfg.Sync.Enabled)
		if cfg.Sync.Enabled {
			fmt.Printf("Sync URL:      %s\n", cfg.Sync.BaseURL)
		}

	case "serve":
		if err := backend.Start(); err != nil {
			fatal(l, "serve", err)
		}

	default:
		usage()
		os.Exit(2)
	}
}

func logOptions(cfg config.AppConfig) applog.Options {
	opts := applog.FromEnv()
	if cfg.Logging.Level != "" {
		opts.Level = cfg.Logging.Level
	}
	if cfg.Logging.Format != "" {
		opts.Format = cfg.Logging.Format
	}
	if cfg.Logging.File != "" {
		opts.File = cfg.Logging.File
	}
	opts.AddSource = opts.AddSource || cfg.Logging.Source
	return opts
}

// resolveDataDir picks the configured data directory or the per-user default.
func resolveDataDir(cfg config.AppConfig) (string, error) {
	if cfg.Storage.Dir != "" {
		return cfg.Storage.Dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "TokenDesk", "data"), nil
}

// openStore opens the configured storage backend. cleanup is never nil.
func openStore(cfg config.AppConfig) (storage.Store, func(), string, error) {
	dir, err := resolveDataDir(cfg)
	if err != nil {
		return nil, func() {}, "", err
	}
	if cfg.Storage.Backend == "file" {
		st, err := storage.NewFileStore(dir)
		if err != nil {
			return nil, func() {}, "", err
		}
		return st, func() {}, dir, nil
	}
	st, err := storage.OpenSQLite(dir)
	if err != nil {
		return nil, func() {}, "", err
	}
	return st, func() { _ = st.Close() }, dir, nil
}

func mustLoad(l *slog.Logger, cfg config.AppConfig, language string) domain.Workspace {
	st, cleanup, _, err := openStore(cfg)
	if err != nil {
		fatal(l, "open storage", err)
	}
	defer cleanup()
	ws, ok := storage.LoadWorkspace(st, language)
	if !ok {
		fmt.Fprintf(os.Stderr, "no stored workspace for %q\n", language)
		os.Exit(1)
	}
	return ws
}

func fatal(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
