//go:build ignore

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/webinter/internship-backend/config"
	"github.com/webinter/internship-backend/database"
	"github.com/webinter/internship-backend/services"
	"github.com/webinter/internship-backend/shared"
)

func main() {
	fmt.Printf("🏥 Internship Backend Health Check - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(strings.Repeat("=", 50))

	healthScore := 0
	totalTests := 4

	cfg := config.LoadConfig()
	ctx := context.Background()

	// Test 1: Database connection
	fmt.Print("🗄️  Database: ")
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("❌ FAILED (%v)\n", err)
	} else {
		fmt.Println("✅ OK")
		healthScore++
		defer database.Close(db)
	}

	// Test 2: Candidate data
	fmt.Print("📊 Candidate Data: ")
	if db == nil {
		fmt.Println("❌ SKIPPED (no database)")
	} else {
		candidateService := services.NewCandidateService(db)
		if candidates, err := candidateService.List(ctx, services.CandidateFilter{}); err != nil {
			fmt.Printf("❌ FAILED (%v)\n", err)
		} else {
			fmt.Printf("✅ OK (%d candidates)\n", len(candidates))
			healthScore++
		}
	}

	// Test 3: Admin account
	fmt.Print("👤 Admin Account: ")
	if db == nil {
		fmt.Println("❌ SKIPPED (no database)")
	} else {
		userService := services.NewUserService(db)
		if admin, err := userService.GetByUsername(ctx, "admin"); err != nil {
			fmt.Printf("❌ FAILED (%v)\n", err)
		} else if admin == nil {
			fmt.Println("❌ FAILED (admin user missing)")
		} else {
			fmt.Println("✅ OK")
			healthScore++
		}
	}

	// Test 4: Remote sheet
	fmt.Print("📡 Remote Sheet: ")
	if cfg.SheetSyncURL == "" {
		fmt.Println("⏭️  SKIPPED (SHEET_SYNC_URL not set)")
		totalTests--
	} else {
		downloader := shared.NewSheetDownloader(30 * time.Second)
		downloadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if data, err := downloader.Download(downloadCtx, cfg.SheetSyncURL); err != nil {
			fmt.Printf("❌ FAILED (%v)\n", err)
		} else {
			fmt.Printf("✅ OK (%d bytes)\n", len(data))
			healthScore++
		}
		cancel()
	}

	fmt.Println(strings.Repeat("-", 50))
	healthPercent := float64(healthScore) / float64(totalTests) * 100

	if healthScore == totalTests {
		fmt.Printf("🎉 SYSTEM HEALTHY: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	} else if healthScore >= totalTests/2 {
		fmt.Printf("⚠️  SYSTEM DEGRADED: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	} else {
		fmt.Printf("❌ SYSTEM UNHEALTHY: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	}

	fmt.Printf("⏰ Check completed at: %s\n", time.Now().Format("15:04:05"))
}
