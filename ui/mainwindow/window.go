// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"screen-translator/internal/app"
	"screen-translator/internal/imageio"
	"screen-translator/internal/translate"
	"screen-translator/internal/version"
	"screen-translator/pkg/geometry"
	"screen-translator/ui/selector"
)

const (
	appTitle       = "OCR Screen Translator"
	prefKeyLastDir = "lastDirectory"

	// hideDelay lets the window manager remove the main window before the
	// screen is grabbed.
	hideDelay = 300 * time.Millisecond
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *app.Session

	actions      []*widget.Button
	processBtn   *widget.Button
	sourceSelect *widget.Select
	targetSelect *widget.Select

	preview      *canvas.Image
	previewLabel *widget.Label
	original     *widget.Entry
	translated   *widget.Entry
	statusText   *canvas.Text
	statusIcon   *widget.Icon
}

// New creates a new main window.
func New(fyneApp fyne.App, session *app.Session, size fyne.Size) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	win.Resize(size)
	win.CenterOnScreen()
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	header := canvas.NewText(appTitle, theme.Color(theme.ColorNamePrimary))
	header.TextSize = 26
	header.TextStyle = fyne.TextStyle{Bold: true}
	header.Alignment = fyne.TextAlignCenter

	areaBtn := widget.NewButtonWithIcon("Select area", theme.ContentCutIcon(), mw.onSelectArea)
	fullBtn := widget.NewButtonWithIcon("Full screen", theme.ComputerIcon(), mw.onFullscreen)
	pasteBtn := widget.NewButtonWithIcon("Paste", theme.ContentPasteIcon(), mw.onPaste)
	fileBtn := widget.NewButtonWithIcon("Choose file", theme.FolderOpenIcon(), mw.onChooseFile)
	mw.processBtn = widget.NewButtonWithIcon("Translate", theme.MediaPlayIcon(), mw.onProcess)
	mw.processBtn.Importance = widget.HighImportance
	mw.actions = []*widget.Button{areaBtn, fullBtn, pasteBtn, fileBtn, mw.processBtn}

	buttons := container.NewGridWithColumns(5, areaBtn, fullBtn, pasteBtn, fileBtn, mw.processBtn)

	src, dst := mw.session.Languages()
	mw.sourceSelect = widget.NewSelect(translate.Names(translate.SourceLanguages), func(string) { mw.onLanguageChanged() })
	mw.sourceSelect.SetSelected(translate.LanguageName(src))
	mw.targetSelect = widget.NewSelect(translate.Names(translate.TargetLanguages), func(string) { mw.onLanguageChanged() })
	mw.targetSelect.SetSelected(translate.LanguageName(dst))

	langs := container.NewHBox(
		widget.NewIcon(theme.MailForwardIcon()),
		container.NewGridWrap(fyne.NewSize(200, mw.sourceSelect.MinSize().Height), mw.sourceSelect),
		widget.NewIcon(theme.NavigateNextIcon()),
		container.NewGridWrap(fyne.NewSize(200, mw.targetSelect.MinSize().Height), mw.targetSelect),
	)

	mw.preview = canvas.NewImageFromResource(nil)
	mw.preview.FillMode = canvas.ImageFillContain
	mw.preview.SetMinSize(fyne.NewSize(imageio.PreviewMaxWidth, imageio.PreviewMaxHeight))
	mw.preview.Hide()
	mw.previewLabel = widget.NewLabel("No image selected")
	mw.previewLabel.Alignment = fyne.TextAlignCenter
	previewArea := container.NewStack(mw.preview, container.NewCenter(mw.previewLabel))

	mw.original = widget.NewMultiLineEntry()
	mw.original.Wrapping = fyne.TextWrapWord
	mw.original.SetPlaceHolder("Recognized text")
	mw.translated = widget.NewMultiLineEntry()
	mw.translated.Wrapping = fyne.TextWrapWord
	mw.translated.SetPlaceHolder("Translation")

	results := container.NewGridWithColumns(2,
		container.NewBorder(mw.resultHeader("Recognized text", mw.original), nil, nil, nil, mw.original),
		container.NewBorder(mw.resultHeader("Translation", mw.translated), nil, nil, nil, mw.translated),
	)

	mw.statusIcon = widget.NewIcon(theme.InfoIcon())
	mw.statusText = canvas.NewText("Starting...", app.ColorInfo)
	status := container.NewHBox(mw.statusIcon, mw.statusText)

	top := container.NewVBox(
		container.NewPadded(header),
		buttons,
		container.NewCenter(langs),
		previewArea,
	)

	// Main container with status bar at bottom
	content := container.NewBorder(
		top,
		container.NewPadded(status),
		nil,
		nil,
		results,
	)
	mw.SetContent(container.NewPadded(content))
}

func (mw *MainWindow) resultHeader(title string, entry *widget.Entry) fyne.CanvasObject {
	copyBtn := widget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		mw.app.Clipboard().SetContent(entry.Text)
		mw.setStatus(app.Status{Level: app.LevelInfo, Message: title + " copied"})
	})
	return container.NewBorder(nil, nil, widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), copyBtn)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Choose Image...", mw.onChooseFile),
		fyne.NewMenuItem("Paste Image", mw.onPaste),
	)
	captureMenu := fyne.NewMenu("Capture",
		fyne.NewMenuItem("Select Area", mw.onSelectArea),
		fyne.NewMenuItem("Full Screen", mw.onFullscreen),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Recognize and Translate", mw.onProcess),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, captureMenu, helpMenu))
}

// setupEventHandlers registers for session events. Events arrive on pool
// workers, so every handler hops to the UI goroutine.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventStatus, func(data interface{}) {
		if st, ok := data.(app.Status); ok {
			fyne.Do(func() {
				mw.setStatus(st)
			})
		}
	})

	mw.session.On(app.EventImageLoaded, func(data interface{}) {
		info, ok := data.(app.ImageLoaded)
		if !ok {
			return
		}
		img, err := imageio.Open(info.Preview)
		if err != nil {
			slog.Warn("failed to load preview", "path", info.Preview, "error", err)
			return
		}
		fyne.Do(func() {
			mw.preview.Image = img
			mw.preview.SetMinSize(fyne.NewSize(float32(info.Size.X), float32(info.Size.Y)))
			mw.preview.Show()
			mw.preview.Refresh()
			mw.previewLabel.Hide()
			mw.original.SetText("")
			mw.translated.SetText("")
		})
	})

	mw.session.On(app.EventTextExtracted, func(data interface{}) {
		if te, ok := data.(app.TextExtracted); ok {
			fyne.Do(func() {
				mw.original.SetText(te.Text)
			})
		}
	})

	mw.session.On(app.EventTranslated, func(data interface{}) {
		if text, ok := data.(string); ok {
			fyne.Do(func() {
				mw.translated.SetText(text)
			})
		}
	})
}

// setStatus updates the status bar. Must run on the UI goroutine.
func (mw *MainWindow) setStatus(st app.Status) {
	mw.statusText.Text = st.Message
	mw.statusText.Color = app.LevelColor(st.Level)
	mw.statusText.Refresh()

	switch st.Level {
	case app.LevelBusy:
		mw.statusIcon.SetResource(theme.ViewRefreshIcon())
	case app.LevelSuccess:
		mw.statusIcon.SetResource(theme.ConfirmIcon())
	case app.LevelWarning:
		mw.statusIcon.SetResource(theme.WarningIcon())
	case app.LevelError:
		mw.statusIcon.SetResource(theme.ErrorIcon())
	default:
		mw.statusIcon.SetResource(theme.InfoIcon())
	}
}

func (mw *MainWindow) setBusy(busy bool) {
	for _, b := range mw.actions {
		if busy {
			b.Disable()
		} else {
			b.Enable()
		}
	}
}

// run disables the action buttons until the task behind done finishes.
func (mw *MainWindow) run(done <-chan struct{}) {
	mw.setBusy(true)
	go func() {
		<-done
		fyne.Do(func() { mw.setBusy(false) })
	}()
}

func (mw *MainWindow) onLanguageChanged() {
	if mw.sourceSelect == nil || mw.targetSelect == nil {
		return
	}
	src, ok := translate.CodeForName(translate.SourceLanguages, mw.sourceSelect.Selected)
	if !ok {
		return
	}
	dst, ok := translate.CodeForName(translate.TargetLanguages, mw.targetSelect.Selected)
	if !ok {
		return
	}
	if err := mw.session.SetLanguages(src, dst); err != nil {
		mw.setStatus(app.Status{Level: app.LevelError, Message: err.Error()})
	}
}

func (mw *MainWindow) onSelectArea() {
	mw.setStatus(app.Status{Level: app.LevelBusy, Message: "Select an area of the screen..."})
	mw.setBusy(true)
	mw.Hide()

	go func() {
		time.Sleep(hideDelay)
		shot, bounds, err := mw.session.Snapshot()
		fyne.Do(func() {
			if err != nil {
				mw.Show()
				mw.setBusy(false)
				mw.setStatus(app.Status{Level: app.LevelError, Message: "Error: " + err.Error()})
				return
			}
			selector.Show(mw.app, shot, bounds, func(r geometry.RectInt, ok bool) {
				mw.Show()
				mw.RequestFocus()
				mw.setBusy(false)
				if !ok {
					mw.setStatus(app.Status{Level: app.LevelWarning, Message: "Area selection cancelled"})
					return
				}
				mw.run(mw.session.CropSnapshot(shot, bounds, r).Done())
			})
		})
	}()
}

func (mw *MainWindow) onFullscreen() {
	mw.setBusy(true)
	mw.Hide()
	go func() {
		time.Sleep(hideDelay)
		mw.session.CaptureFullscreen().Then(func(string, error) {
			fyne.Do(func() {
				mw.Show()
				mw.setBusy(false)
			})
		})
	}()
}

func (mw *MainWindow) onPaste() {
	mw.run(mw.session.PasteClipboard().Done())
}

func (mw *MainWindow) onChooseFile() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.run(mw.session.UseFile(path).Done())
	}, mw.Window)

	exts := make([]string, 0, len(imageio.ImageExtensions))
	for _, e := range imageio.ImageExtensions {
		exts = append(exts, "."+e)
	}
	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onProcess() {
	mw.run(mw.session.Process().Done())
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s %s\n\nRecognizes text on screen and translates it.", appTitle, version.String()),
		mw.Window)
}
