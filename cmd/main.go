package main

import (
	"context"
	"log"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timer"
	"focustimer/internal/imaging"
	"focustimer/internal/media"
	"focustimer/internal/platform"
	"focustimer/internal/storage"
	"focustimer/internal/ui/dispatch"
	"focustimer/internal/ui/panel"
	"focustimer/internal/ui/preferences"
	"focustimer/internal/ui/stage"
	"focustimer/internal/ui/tray"
	"focustimer/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
)

func main() {
	guard, err := platform.AcquireSingleInstance(storage.AppName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settingsPath, err := storage.ResolvePath(storage.AppName, platform.ConfigDir)
	if err != nil {
		log.Printf("settings path: %v", err)
		return
	}
	store, loadErr := storage.Open(settingsPath)
	if loadErr != nil {
		log.Printf("settings: %v", loadErr)
	}
	settings := store.Settings()

	fyneApp := app.NewWithID("com.focustimer.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconApp))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue := dispatch.New(dispatch.DefaultCapacity)
	go queue.Run(ctx, fyne.DoAndWait)

	output := &media.Speaker{}
	if err := output.Init(); err != nil {
		log.Printf("audio: %v", err)
	}
	alarm := media.NewAlarm(output, settings.Timer)
	music := media.NewMusic(output, nil)

	engine := timer.New(settings.Timer, queue, timer.Config{})
	engine.SetAlarm(alarm)

	sampler := imaging.NewSampler(imaging.FileDecoder{}, store)
	compositor := imaging.NewCompositor(sampler, nil, nil)

	var (
		stageWindow     *stage.Window
		stageController *stage.Controller
		prefsWindow     *preferences.Window
		trayManager     *tray.Manager
	)

	panelWindow := panel.NewWindow(fyneApp)
	panelController := panel.NewController(panelWindow, compositor, store, panel.Config{
		Screen: panelWindow.ScreenSize,
		OnVisibility: func(open bool) {
			if trayManager != nil {
				trayManager.SetPanelOpen(open)
			}
		},
	})
	panelWindow.Bind(panelController)
	togglePanel := panelController.Toggle
	showPreferences := func() {
		prefsWindow.UpdateSettings(store.Settings())
		prefsWindow.Show()
	}
	warn := func(err error) {
		dialog.ShowError(err, stageWindow.Window())
	}

	stageWindow = stage.NewWindow(fyneApp, stage.Callbacks{
		OnTogglePanel: togglePanel,
		OnPreferences: showPreferences,
	})
	stageController = stage.NewController(stageWindow, engine, compositor, store, settings.Timer)
	stageWindow.Bind(stageController)

	engine.SetRecorder(store, func(err error) {
		queue.Post(func() { warn(err) })
	})

	prefsWindow = preferences.New(fyneApp, settings, func(updated model.Settings) error {
		if err := store.ApplyPreferences(updated); err != nil {
			return err
		}
		current := store.Settings()
		alarm.Configure(current.Timer)
		stageController.SetDefaults(current.Timer)
		stageController.Refresh()
		panelController.Refresh()
		return nil
	})

	toggleMusic := func() {
		if music.Running() {
			music.Toggle()
		} else if err := music.Start(store.Settings().Music); err != nil {
			log.Printf("music: %v", err)
			warn(err)
		}
		if trayManager != nil {
			trayManager.SetMusic(music.Running(), music.Paused())
		}
	}

	quit := func() {
		panelController.Close()
		engine.Shutdown()
		music.Stop()
		output.Close()
		cancel()
		fyneApp.Quit()
	}

	runningIcon := resources.MustIcon(resources.IconRunning)
	pausedIcon := resources.MustIcon(resources.IconPaused)
	idleIcon := resources.MustIcon(resources.IconApp)

	desktopApp, ok := fyneApp.(desktop.App)
	if ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShowStage:   stageWindow.Show,
			OnTogglePanel: togglePanel,
			OnStartPause:  stageController.StartPause,
			OnStop:        stageController.Stop,
			OnMusicToggle: toggleMusic,
			OnMusicNext: func() {
				music.Next()
				trayManager.SetMusic(music.Running(), music.Paused())
			},
			OnPreferences: showPreferences,
			OnQuit:        quit,
		})
		desktopApp.SetSystemTrayIcon(idleIcon)
		desktopApp.SetSystemTrayWindow(stageWindow.Window())
		engine.AddSink(timer.SinkFunc(trayManager.SetStatus))
	} else {
		log.Printf("system tray unsupported on this platform")
		stageWindow.Window().SetCloseIntercept(quit)
	}

	engine.AddSink(stageController)
	engine.AddSink(panelController)

	events := engine.Subscribe(8)
	go func() {
		for event := range events {
			status := event.State.Status
			fyne.Do(func() {
				stageController.Changed(status)
				if trayManager == nil {
					return
				}
				trayManager.SetTimerStatus(status)
				switch status {
				case timer.StatusRunning:
					desktopApp.SetSystemTrayIcon(runningIcon)
				case timer.StatusPaused:
					desktopApp.SetSystemTrayIcon(pausedIcon)
				default:
					desktopApp.SetSystemTrayIcon(idleIcon)
				}
			})
		}
	}()

	guard.OnActivate(func() {
		fyne.Do(stageWindow.Show)
	})

	stageController.Init()
	stageWindow.Show()
	if loadErr != nil {
		warn(loadErr)
	}
	fyneApp.Run()
}
