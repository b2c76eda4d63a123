package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"scrawl/vision"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
)

// Build info - set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F5C26B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8A8A8"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	scrawlLogo = `
    ╭─────────────────────────────────────╮
    │  📓 Scrawl - Notebook Pages to MD   │
    ╰─────────────────────────────────────╯`
)

// ScanOptions holds the configuration for one page scan
type ScanOptions struct {
	ImagePath string
	OutputDir string
	SkipClean bool
}

// parseArgs parses the command line into scan options. The second return
// value is true when version info was requested.
func parseArgs(args []string) (ScanOptions, bool, error) {
	fs := flag.NewFlagSet("scrawl", flag.ContinueOnError)
	outdir := fs.String("outdir", "out", "Output directory")
	noClean := fs.Bool("no-clean", false, "Skip the Markdown cleanup stage")
	versionFlag := fs.Bool("version", false, "Print version information")
	shortVersionFlag := fs.Bool("v", false, "Print version information (short)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: scrawl [options] <image>")
		fmt.Fprintln(fs.Output(), "\nConverts a photo of a handwritten notebook page into cleaned Markdown.")
		fmt.Fprintln(fs.Output(), "\nOptions:")
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nEnvironment:")
		fmt.Fprintln(fs.Output(), "  AZURE_VISION_ENDPOINT  Azure AI Vision endpoint (required)")
		fmt.Fprintln(fs.Output(), "  AZURE_VISION_KEY       Azure AI Vision access key (required)")
		fmt.Fprintln(fs.Output(), "  OPENAI_API_KEY         Enables Markdown cleanup (optional)")
		fmt.Fprintln(fs.Output(), "  OPENAI_MODEL           Cleanup model (default: gpt-4.1-mini)")
	}

	if err := fs.Parse(args); err != nil {
		return ScanOptions{}, false, err
	}

	opts := ScanOptions{
		ImagePath: fs.Arg(0),
		OutputDir: *outdir,
		SkipClean: *noClean,
	}
	return opts, *versionFlag || *shortVersionFlag, nil
}

func main() {
	opts, showVersion, err := parseArgs(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if showVersion {
		fmt.Printf("scrawl %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		fmt.Printf("  go:     %s\n", runtime.Version())
		fmt.Printf("  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	// Load .env file if it exists (won't error if missing)
	_ = godotenv.Load()

	// Check for Azure Vision config
	if err := vision.CheckConfig(); err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		fmt.Println(infoStyle.Render(vision.GetAPIKeyHelp()))
		os.Exit(1)
	}

	// Non-interactive: an image path was given on the command line
	if opts.ImagePath != "" {
		if err := runScan(opts); err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
			os.Exit(1)
		}
		return
	}

	// Interactive mode
	fmt.Println(titleStyle.Render(scrawlLogo))

	for {
		if !runScanWorkflow(opts) {
			break
		}
	}

	fmt.Println(subtitleStyle.Render("\n📓 Thanks for using Scrawl! Bye bye!"))
}

func formatFileSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
