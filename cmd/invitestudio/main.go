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
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"invitestudio/internal/canvas"
	"invitestudio/internal/config"
	"invitestudio/internal/crash"
	applog "invitestudio/internal/log"
	"invitestudio/internal/render"
	"invitestudio/internal/ui"
	"invitestudio/internal/vector"
	"invitestudio/internal/version"
)

func usage() {
	fmt.Println("Invite Studio")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  invitestudio version|-v|--version   Show version")
	fmt.Println("  invitestudio studio                  Launch the editor (build with -tags fyne for full UI)")
	fmt.Println("  invitestudio render <out.png>        Render a sample design to a PNG file")
	fmt.Println("  invitestudio config                  Print the resolved configuration path")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var store *canvas.Store
	home, _ := os.UserHomeDir()
	defer func() { crash.Recover(home, store) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Invite Studio")
			fmt.Println(version.String())
			return
		case "studio":
			if err := ui.Run(); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "render":
			if len(args) < 3 {
				fmt.Println("render requires <out.png>")
				usage()
				os.Exit(2)
			}
			out, _ := filepath.Abs(args[2])
			store = sampleDesign()
			if err := renderToFile(store, out); err != nil {
				l.Error("render failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote", out)
			return
		case "config":
			path, err := config.ConfigPath()
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println(path)
			return
		}
	}

	usage()
}

// sampleDesign builds a small demonstration canvas so the renderer can be
// exercised without the UI.
func sampleDesign() *canvas.Store {
	store := canvas.NewStore()
	store.SetBackgroundColor("#fff8e1")
	_, _ = store.Add(canvas.KindShape, canvas.Init{
		Shape: canvas.ShapeAttrs{Shape: canvas.ShapeCircle},
		Color: "#ffc107",
		Size:  vector.Size{W: 220, H: 220},
	}.At(vector.Pt{X: 180, Y: 200}))
	_, _ = store.Add(canvas.KindText, canvas.Init{
		Text:  canvas.TextAttrs{Content: "You're invited!", FontSize: 36, FontWeight: 700},
		Color: "#3f51b5",
	}.At(vector.Pt{X: 180, Y: 420}))
	_, _ = store.Add(canvas.KindIcon, canvas.Init{
		Icon:  canvas.IconAttrs{Thumbnail: "star"},
		Color: "#e91e63",
	}.At(vector.Pt{X: 180, Y: 540}))
	return store
}

func renderToFile(store *canvas.Store, path string) error {
	r := render.NewRenderer()
	img := r.Compose(store.Snapshot(), nil, render.Options{Width: 720, Height: 1280, Scale: 2})
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return png.Encode(f, img)
}
