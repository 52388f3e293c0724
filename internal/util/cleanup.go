package util

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
)

const TempSuffix = "_tmp"

var pending sync.Map

// SetupInterruptHandler removes half-written files on SIGINT/SIGTERM and
// exits. outputDir is dropped as well when the run left it empty.
func SetupInterruptHandler(outputDir string) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		fmt.Println("\nInterrupt received. Cleaning up...")

		CleanupPending()
		if outputDir != "" {
			RemoveIfEmpty(outputDir)
		}
		fmt.Println("\nExiting due to interrupt.")

		os.Exit(1)
	}()
}

// CleanupPending removes every temp file created by WriteFileAtomic that
// has not been renamed into place yet.
func CleanupPending() {
	pending.Range(func(k, _ any) bool {
		path := k.(string)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Error cleaning up %s: %v\n", path, err)
		} else if err == nil {
			fmt.Printf("Removed %s\n", path)
		}
		pending.Delete(path)
		return true
	})
}

func RemoveIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	if len(entries) == 0 {
		if err := os.Remove(dir); err == nil {
			fmt.Printf("Removed empty output folder: %s\n", dir)
		}
	}
}

// WriteFileAtomic writes data to path+TempSuffix and renames it over path,
// so readers never see a partial page.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + TempSuffix
	pending.Store(tmp, struct{}{})
	defer pending.Delete(tmp)

	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}
