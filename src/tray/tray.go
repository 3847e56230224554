package tray

import (
	"fmt"
	"log"
	"sync"

	"github.com/getlantern/systray"
)

type Config struct {
	Title   string
	Tooltip string
	Hotkey  string
	// OnSelect runs when "Select region" is clicked.
	OnSelect func()
	// OnExit runs once when the tray goes away.
	OnExit func()
}

type Tray struct {
	cfg  Config
	icon []byte
	once sync.Once
	quit chan struct{}
}

func New(cfg Config) (*Tray, error) {
	icon, err := iconBytes()
	if err != nil {
		return nil, err
	}
	return &Tray{cfg: cfg, icon: icon, quit: make(chan struct{})}, nil
}

// Run blocks until Destroy is called or the user quits from the menu.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(t.icon)
	systray.SetTitle(t.cfg.Title)
	systray.SetTooltip(t.cfg.Tooltip)

	mSelect := systray.AddMenuItem("Select region", "Select a screen region")
	mAbout := systray.AddMenuItem("About", "About "+t.cfg.Title)
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	go t.handleClicks(mSelect, mAbout, mQuit)
}

func (t *Tray) handleClicks(mSelect, mAbout, mQuit *systray.MenuItem) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in tray goroutine: %v", r)
		}
	}()
	for {
		select {
		case <-mSelect.ClickedCh:
			log.Printf("Tray: select region clicked")
			if t.cfg.OnSelect != nil {
				t.cfg.OnSelect()
			}
		case <-mAbout.ClickedCh:
			showMessageBox(t.cfg.Title, aboutText(t.cfg.Title, t.cfg.Hotkey))
		case <-mQuit.ClickedCh:
			log.Printf("Tray: quit clicked")
			t.Destroy()
			return
		case <-t.quit:
			return
		}
	}
}

func (t *Tray) onExit() {
	if t.cfg.OnExit != nil {
		t.cfg.OnExit()
	}
}

// Destroy removes the tray icon. Calling it twice is harmless.
func (t *Tray) Destroy() {
	t.once.Do(func() {
		close(t.quit)
		systray.Quit()
	})
}

func aboutText(title, hotkey string) string {
	return fmt.Sprintf("%s\n\nPress %s to select a screen region.\nHold Alt while selecting to snap to a window.", title, hotkey)
}
