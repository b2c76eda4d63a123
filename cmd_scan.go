package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"scrawl/cleanup"
	"scrawl/notes"
	"scrawl/vision"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// debugEnabled reports whether debug tracing is on
func debugEnabled() bool {
	return os.Getenv("SCRAWL_DEBUG") != ""
}

// runScan converts one notebook page image in non-interactive mode. The
// raw OCR text is written before cleanup runs, so a cleanup failure still
// leaves the raw file behind.
func runScan(opts ScanOptions) error {
	client, err := vision.NewClientFromEnv(vision.WithDebug(debugEnabled()))
	if err != nil {
		return err
	}

	ctx := context.Background()

	fmt.Println(infoStyle.Render("Running OCR on " + filepath.Base(opts.ImagePath) + "..."))
	rawText, err := client.RecognizeFile(ctx, opts.ImagePath)
	if err != nil {
		return err
	}

	writer := notes.NewWriter(opts.OutputDir)
	rawPath, err := writer.WriteRaw(opts.ImagePath, rawText)
	if err != nil {
		return err
	}

	if opts.SkipClean {
		fmt.Println("Wrote: " + rawPath)
		return nil
	}

	cleaner := cleanup.NewFromEnv()
	if cleaner.Enabled() {
		fmt.Println(infoStyle.Render("Cleaning up with " + cleaner.Model() + "..."))
	}
	cleanText, err := cleaner.Clean(ctx, rawText)
	if err != nil {
		return err
	}

	cleanPath, err := writer.WriteClean(opts.ImagePath, cleanText)
	if err != nil {
		return err
	}

	fmt.Println("Wrote: " + rawPath)
	fmt.Println("Wrote: " + cleanPath)
	return nil
}

// runScanWorkflow runs the interactive page scanning workflow
func runScanWorkflow(base ScanOptions) bool {
	// Step 1: Select page image
	var imagePath string
	startDir, _ := os.Getwd()

	filePicker := huh.NewFilePicker().
		Title("Select a notebook page image").
		Description("Navigate and select a photo of a handwritten page").
		Picking(true).
		CurrentDirectory(startDir).
		ShowHidden(false).
		ShowPermissions(false).
		ShowSize(true).
		Height(15).
		AllowedTypes([]string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif", ".webp"}).
		Value(&imagePath)

	err := huh.NewForm(huh.NewGroup(filePicker)).
		WithTheme(huh.ThemeCatppuccin()).
		Run()

	if err != nil {
		if err == huh.ErrUserAborted {
			return false
		}
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return false
	}

	// Display image info
	imageInfo, err := os.Stat(imagePath)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return askToContinue()
	}
	infoBox := boxStyle.Render(fmt.Sprintf(
		"📄 %s\n📦 Size: %s",
		filepath.Base(imagePath),
		formatFileSize(imageInfo.Size()),
	))
	fmt.Println(infoBox)

	// Step 2: Confirm
	opts := base
	opts.ImagePath = imagePath

	cleanStage := "Markdown cleanup (" + cleanupModelName() + ")"
	if opts.SkipClean || !cleanup.CheckConfig() {
		cleanStage = "skipped"
	}
	summaryBox := boxStyle.Render(fmt.Sprintf(
		"📋 Scan Summary\n\n"+
			"Input:   %s\n"+
			"Output:  %s\n"+
			"Cleanup: %s",
		filepath.Base(imagePath),
		opts.OutputDir,
		cleanStage,
	))
	fmt.Println(summaryBox)

	var proceed bool
	confirmSelect := huh.NewConfirm().
		Title("Scan this page?").
		Affirmative("Yes, scan it!").
		Negative("No, cancel").
		Value(&proceed)

	err = huh.NewForm(huh.NewGroup(confirmSelect)).
		WithTheme(huh.ThemeCatppuccin()).
		Run()

	if err != nil || !proceed {
		fmt.Println(infoStyle.Render("Scan cancelled."))
		return askToContinue()
	}

	// Step 3: OCR
	client, err := vision.NewClientFromEnv(vision.WithDebug(debugEnabled()))
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return askToContinue()
	}

	ctx := context.Background()

	var rawText string
	var scanErr error
	err = spinner.New().
		Title("📓 Reading your handwriting...").
		Action(func() {
			rawText, scanErr = client.RecognizeFile(ctx, opts.ImagePath)
		}).
		Run()

	if err != nil || scanErr != nil {
		if scanErr != nil {
			fmt.Println(errorStyle.Render("OCR failed: " + scanErr.Error()))
		} else {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
		}
		return askToContinue()
	}

	writer := notes.NewWriter(opts.OutputDir)
	writer.Verbose = true

	rawPath, err := writer.WriteRaw(opts.ImagePath, rawText)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return askToContinue()
	}

	// Step 4: Cleanup
	cleanPath := ""
	if !opts.SkipClean {
		cleaner := cleanup.NewFromEnv()
		var cleanText string
		var cleanErr error

		err = spinner.New().
			Title("📓 Tidying up into Markdown...").
			Action(func() {
				cleanText, cleanErr = cleaner.Clean(ctx, rawText)
			}).
			Run()

		if err != nil || cleanErr != nil {
			if cleanErr != nil {
				fmt.Println(errorStyle.Render("Cleanup failed: " + cleanErr.Error()))
			} else {
				fmt.Println(errorStyle.Render("Error: " + err.Error()))
			}
			return askToContinue()
		}

		cleanPath, err = writer.WriteClean(opts.ImagePath, cleanText)
		if err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
			return askToContinue()
		}
	}

	// Success!
	summary := "✅ Done!\n\nRaw text: " + rawPath
	if cleanPath != "" {
		summary += "\nMarkdown: " + cleanPath
	}
	fmt.Println(successStyle.Render(boxStyle.Render(summary)))

	return askToContinue()
}

func askToContinue() bool {
	var choice string
	selectNext := huh.NewSelect[string]().
		Title("What next?").
		Options(
			huh.NewOption("Scan another page", "another"),
			huh.NewOption("Exit", "exit"),
		).
		Value(&choice)

	err := huh.NewForm(huh.NewGroup(selectNext)).
		WithTheme(huh.ThemeCatppuccin()).
		Run()

	if err != nil {
		return false
	}

	return choice == "another"
}

func cleanupModelName() string {
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		return model
	}
	return cleanup.DefaultModel
}
