// propforge is a CLI for building, inspecting and exporting procedural props.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/propforge/internal/config"
	"github.com/Faultbox/propforge/internal/export"
	"github.com/Faultbox/propforge/internal/logger"
	"github.com/Faultbox/propforge/internal/props"
	"github.com/Faultbox/propforge/pkg/mesh"
	"github.com/Faultbox/propforge/pkg/texture"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "list", "ls":
		cmdList()
	case "stats":
		cmdStats(cfg, args)
	case "export", "x":
		cmdExport(cfg, args)
	case "texture", "tex":
		cmdTexture(cfg, args)
	case "mesh":
		cmdMesh(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`propforge - procedural prop generator

Usage:
  propforge [flags] <command> [args]

Commands:
  list                               List props, mesh kinds and texture kinds
  stats [prop]                       Build a prop and show its scene statistics
  export [prop] [seconds]            Build, animate to <seconds> (max 3600) and write glTF
  texture <kind> <file.png> [size] [thumb]
                                     Synthesize a texture and save it as PNG
  mesh <kind>                        Build a sample primitive and show its counts

Flags:
  -config <path>   Config file (default ./propforge.yaml)
  -prop <name>     Prop used when none is given
  -out <dir>       Export directory
  -debug           Debug logging

Examples:
  propforge list
  propforge stats reactor
  propforge -out dist export lift 1.5
  propforge texture energy energy.png 512
  propforge texture stripe stripe_thumb.png 256 64`)
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", a...)
	os.Exit(1)
}

func cmdList() {
	fmt.Println("Props:")
	for _, n := range props.Names() {
		fmt.Printf("  %s\n", n)
	}
	fmt.Println("\nMesh kinds:")
	for _, k := range mesh.Kinds {
		fmt.Printf("  %s\n", k)
	}
	fmt.Println("\nTexture kinds:")
	for _, k := range texture.Kinds {
		fmt.Printf("  %s\n", k)
	}
}

func propArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Preview.Prop
}

func buildRig(cfg *config.Config, name string) *props.Rig {
	rig, err := props.New(name, cfg, logger.Named("props"))
	if err != nil {
		fail("%v", err)
	}
	if err := rig.Build(); err != nil {
		fail("%v", err)
	}
	return rig
}

func cmdStats(cfg *config.Config, args []string) {
	rig := buildRig(cfg, propArg(cfg, args))
	st := rig.Scene.Stats()
	b := rig.Scene.Bounds()

	fmt.Printf("Prop: %s\n", rig.Name())
	fmt.Printf("Nodes:      %d\n", st.Nodes)
	fmt.Printf("Surfaces:   %d\n", st.Surfaces)
	fmt.Printf("Meshes:     %d\n", st.Meshes)
	fmt.Printf("Materials:  %d\n", st.Materials)
	fmt.Printf("Vertices:   %d\n", st.Vertices)
	fmt.Printf("Triangles:  %d\n", st.Triangles)
	fmt.Printf("Textures:   %d\n", rig.Textures.Len())
	size := b.Size()
	fmt.Printf("Bounds:     %.2f x %.2f x %.2f\n", size[0], size[1], size[2])

	fmt.Println("\nAnimation states:")
	states := rig.Driver.States()
	sorted := make([]string, 0, len(states))
	for _, s := range states {
		sorted = append(sorted, fmt.Sprintf("  %-28s %2d channel(s)", s.Name, s.ChannelCount()))
	}
	sort.Strings(sorted)
	fmt.Println(strings.Join(sorted, "\n"))
}

func cmdExport(cfg *config.Config, args []string) {
	rig := buildRig(cfg, propArg(cfg, args))

	var at float64
	if len(args) > 1 {
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fail("invalid time %q", args[1])
		}
		at = v
	}
	if _, err := rig.RunTo(at); err != nil {
		fail("%v", err)
	}

	path, err := export.SaveScene(rig.Scene, cfg.Export.Dir, cfg.Export.Binary, logger.Named("export"))
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("Exported %s at t=%.2fs to %s\n", rig.Name(), at, path)
}

func cmdTexture(cfg *config.Config, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: propforge texture <kind> <file.png> [size] [thumb]")
		os.Exit(1)
	}
	kind, err := texture.ParseKind(args[0])
	if err != nil {
		fail("%v", err)
	}
	size := cfg.Texture.Size
	if len(args) > 2 {
		if size, err = strconv.Atoi(args[2]); err != nil {
			fail("invalid size %q", args[2])
		}
	}
	thumb := 0
	if len(args) > 3 {
		if thumb, err = strconv.Atoi(args[3]); err != nil {
			fail("invalid thumbnail size %q", args[3])
		}
	}

	params, err := texture.DefaultParams(kind, size)
	if err != nil {
		fail("%v", err)
	}
	bm, err := texture.BuildTexture(kind, params)
	if err != nil {
		fail("%v", err)
	}
	path := args[1]
	if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(cfg.Export.Dir, path)
	}
	if err := export.SavePNG(bm, path, thumb); err != nil {
		fail("%v", err)
	}
	logger.Info("texture saved", zap.String("kind", string(kind)), zap.Int("size", bm.Width), zap.Int("thumb", thumb), zap.String("path", path))
	if thumb > 0 {
		fmt.Printf("Saved %s texture (%d px, scaled to %d) to %s\n", kind, bm.Width, thumb, path)
	} else {
		fmt.Printf("Saved %dx%d %s texture to %s\n", bm.Width, bm.Height, kind, path)
	}
}

var sampleMeshes = map[mesh.Kind]mesh.Params{
	mesh.KindPrism:    mesh.PrismParams{Width: 3, Depth: 2, Height: 0.25, CornerRadius: 0.2, Segments: 6},
	mesh.KindCylinder: mesh.CylinderParams{Radius: 0.5, Height: 1, Chamfer: 0.05, Segments: 24},
	mesh.KindTorus:    mesh.TorusParams{MajorRadius: 1, MinorRadius: 0.1, MajorSegments: 48, MinorSegments: 12},
	mesh.KindCone:     mesh.ConeParams{RadiusBottom: 0.5, Height: 1, Segments: 24, CapBottom: true},
	mesh.KindSphere:   mesh.SphereParams{Radius: 0.5, LongitudeSegments: 24, LatitudeSegments: 12},
}

func cmdMesh(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: propforge mesh <kind>")
		os.Exit(1)
	}
	kind, err := mesh.ParseKind(args[0])
	if err != nil {
		fail("%v", err)
	}
	params := sampleMeshes[kind]

	b, err := mesh.NewBuilder(cfg.Mesh.MaxVertices).Build(kind, params)
	if err != nil {
		fail("%v", err)
	}
	if err := b.Validate(); err != nil {
		fail("%v", err)
	}
	size := b.Bounds.Size()
	fmt.Printf("Kind:       %s\n", kind)
	fmt.Printf("Params:     %+v\n", params)
	fmt.Printf("Vertices:   %d (bound %d)\n", b.VertexCount(), params.VertexCount())
	fmt.Printf("Triangles:  %d\n", b.TriangleCount())
	fmt.Printf("Indices:    %s\n", b.Format)
	fmt.Printf("Bounds:     %.2f x %.2f x %.2f\n", size[0], size[1], size[2])
}
