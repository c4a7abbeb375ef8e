package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/olekukonko/tablewriter"

	"github.com/esiee-tools/adesync/ade"
	"github.com/esiee-tools/adesync/aurion"
	"github.com/esiee-tools/adesync/importer"
	"github.com/esiee-tools/adesync/migrations"
	"github.com/esiee-tools/adesync/models"
)

func init() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	// Connect to database using environment variables
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"))

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	// Initialize database schema
	if err := migrations.InitSchema(db); err != nil {
		log.Fatal(err)
	}

	color.Cyan("=== ADE/Aurion Timetable Synchronization ===")

	if err := synchronize(context.Background(), db); err != nil {
		color.Red("Synchronization failed: %v", err)
		os.Exit(1)
	}
}

func synchronize(ctx context.Context, db *sql.DB) error {
	adeClient := ade.NewClient(
		os.Getenv("ADE_URL"),
		os.Getenv("ADE_LOGIN"),
		os.Getenv("ADE_PASSWORD"))
	adeClient.DumpDir = os.Getenv("ADE_DUMP_DIR")

	aurionClient := aurion.NewClient(
		os.Getenv("AURION_URL"),
		os.Getenv("AURION_LOGIN"),
		os.Getenv("AURION_PASSWORD"),
		os.Getenv("AURION_DATABASE"))

	if _, err := adeClient.Connect(ctx); err != nil {
		return fmt.Errorf("connect to ADE: %w", err)
	}
	defer func() {
		if _, err := adeClient.Disconnect(ctx); err != nil {
			log.Printf("disconnect from ADE: %v", err)
		}
	}()

	if err := adeClient.SetProject(ctx, os.Getenv("ADE_PROJECT_ID")); err != nil {
		return fmt.Errorf("set ADE project: %w", err)
	}
	color.Yellow("Connected to ADE")

	run, err := importer.Run(ctx, db, adeClient, aurionClient)
	if err != nil {
		return err
	}

	color.Green("Synchronization completed in %s", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	printRunSummary(run)
	return nil
}

func printRunSummary(run models.SyncRun) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Table", "Rows"})
	table.Append([]string{"classrooms", strconv.Itoa(run.Classrooms)})
	table.Append([]string{"instructors", strconv.Itoa(run.Instructors)})
	table.Append([]string{"unites", strconv.Itoa(run.Unites)})
	table.Append([]string{"events", strconv.Itoa(run.Events)})
	table.Append([]string{"events_classrooms", strconv.Itoa(run.EventClassrooms)})
	table.Append([]string{"events_instructors", strconv.Itoa(run.EventInstructors)})
	table.Render()
}
