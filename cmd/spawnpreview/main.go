// Spawn pattern preview tool - interactive visualization of the initial
// population placement with sliders.
//
// Usage: go run ./cmd/spawnpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

var patterns = []string{
	systems.PatternCircle,
	systems.PatternBurst,
	systems.PatternSpiral,
	systems.PatternRandom,
	systems.PatternNoise,
}

// PreviewParams holds the population settings being previewed.
type PreviewParams struct {
	Pattern int
	Count   int
	Radius  float32
	Seed    int64
}

func paramsFromConfig(cfg *config.Config) PreviewParams {
	p := PreviewParams{
		Count:  cfg.Population.Initial,
		Radius: float32(cfg.Population.SpawnRadius),
		Seed:   12345,
	}
	for i, name := range patterns {
		if name == cfg.Population.Pattern {
			p.Pattern = i
		}
	}
	return p
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	fieldW, fieldH := cfg.Field.Width, cfg.Field.Height

	rl.InitWindow(windowWidth, windowHeight, "Spawn Pattern Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	defaults := paramsFromConfig(cfg)
	params := defaults

	img := rl.GenImageColor(fieldW, fieldH, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	pixels := make([]color.RGBA, fieldW*fieldH)

	var spawns []systems.Spawn
	var genErr error
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			rng := rand.New(rand.NewSource(params.Seed))
			spawns, genErr = systems.SpawnPattern(patterns[params.Pattern], params.Count, fieldW, fieldH, params.Radius, rng)
			density := rasterize(spawns, fieldW, fieldH)
			shade(pixels, density)
			rl.UpdateTexture(texture, pixels)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview, letterboxed to the field aspect
		scale := min(float32(previewSize)/float32(fieldW), float32(previewSize)/float32(fieldH))
		dst := rl.Rectangle{X: 10, Y: 10, Width: float32(fieldW) * scale, Height: float32(fieldH) * scale}
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(fieldW), Height: float32(fieldH)},
			dst,
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLinesEx(dst, 1, rl.DarkGray)
		drawHeadings(spawns, dst, scale)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Field: %dx%d  Agents: %d", fieldW, fieldH, len(spawns)), 15, statsY, 16, rl.DarkGray)
		if genErr != nil {
			rl.DrawText(genErr.Error(), 15, statsY+20, 16, rl.Red)
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Initial Population", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Pattern", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newPattern := int(gui.ToggleGroup(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth-20) / float32(len(patterns)), Height: 24},
			strings.Join(patterns, ";"),
			int32(params.Pattern),
		))
		if newPattern != params.Pattern {
			params.Pattern = newPattern
			needsRegen = true
		}
		panelY += 40

		rl.DrawText("Count", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCount := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "50k",
			float32(params.Count), 0, 50000,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Count), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newCount) != params.Count {
			params.Count = int(newCount)
			needsRegen = true
		}
		panelY += 35

		maxR := float32(min(fieldW, fieldH)) / 2
		rl.DrawText("Spawn radius (cells)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRadius := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", fmt.Sprintf("%.0f", maxR),
			params.Radius, 1, maxR,
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.Radius), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newRadius != params.Radius {
			params.Radius = newRadius
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := populationYAML(params, cfg.Population.Species)
		for _, line := range strings.Split(yaml, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// populationYAML renders params as a population config block.
func populationYAML(p PreviewParams, species string) string {
	return fmt.Sprintf(`population:
  initial: %d
  pattern: %s
  spawn_radius: %.0f
  species: %s`, p.Count, patterns[p.Pattern], p.Radius, species)
}

// rasterize counts placements per cell.
func rasterize(spawns []systems.Spawn, w, h int) []uint16 {
	density := make([]uint16, w*h)
	for _, s := range spawns {
		x, y := int(s.Pos.X), int(s.Pos.Y)
		if x < 0 || y < 0 || x >= w || y >= h {
			continue
		}
		if i := y*w + x; density[i] < math.MaxUint16 {
			density[i]++
		}
	}
	return density
}

// shade maps cell counts to grey levels, saturating at four agents per cell.
func shade(pixels []color.RGBA, density []uint16) {
	for i, n := range density {
		v := uint8(min(int(n)*64, 255))
		pixels[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
}

// drawHeadings draws a short heading tick for a sample of placements.
func drawHeadings(spawns []systems.Spawn, dst rl.Rectangle, scale float32) {
	step := max(len(spawns)/300, 1)
	for i := 0; i < len(spawns); i += step {
		s := spawns[i]
		x := dst.X + s.Pos.X*scale
		y := dst.Y + s.Pos.Y*scale
		dx := float32(math.Cos(float64(s.Heading))) * 6
		dy := float32(math.Sin(float64(s.Heading))) * 6
		rl.DrawLineV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: x + dx, Y: y + dy}, rl.Orange)
	}
}
