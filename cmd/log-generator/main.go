package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"log-anomaly-detector/internal/model"

	"github.com/google/uuid"
)

var logSources = []string{"web-server", "database", "auth-service", "payment-gateway", "user-service"}

var errorMessages = []string{
	"Connection timeout",
	"Database query failed",
	"Authentication failed",
	"Invalid input received",
	"Memory allocation error",
	"Segmentation fault detected",
	"Deadlock detected in transaction",
	"File not found",
	"Permission denied",
	"Service unavailable",
}

var infoMessages = []string{
	"User login successful",
	"Transaction completed",
	"Data backup completed",
	"Service started successfully",
	"Configuration loaded",
	"Cache refreshed",
	"Task scheduled",
	"Message sent successfully",
	"File uploaded successfully",
	"API request completed",
}

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:3000", "Log server base URL")
		count     = flag.Int("count", 20, "Number of normal logs to generate")
	)
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Println("Starting log generator...")

	for i := 0; i < *count; i++ {
		if err := sendLog(client, *serverURL, generateLog()); err != nil {
			fmt.Fprintf(os.Stderr, "Error sending log: %v\n", err)
		}
		time.Sleep(200 * time.Millisecond)
	}

	fmt.Println("\nSending anomalous log...")
	if err := sendLog(client, *serverURL, generateAnomalousLog()); err != nil {
		fmt.Fprintf(os.Stderr, "Error sending log: %v\n", err)
	}

	fmt.Println("\nSending error burst...")
	for i := 0; i < 5; i++ {
		record := generateLog()
		record.Type = "error"
		record.Message = errorMessages[0]
		if err := sendLog(client, *serverURL, record); err != nil {
			fmt.Fprintf(os.Stderr, "Error sending log: %v\n", err)
		}
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Println("\nLog generation completed!")
}

func generateLog() model.LogRecord {
	logType := "info"
	if rand.Intn(3) == 0 {
		logType = "error"
	}

	var message string
	if logType == "error" {
		message = errorMessages[rand.Intn(len(errorMessages))]
	} else {
		message = infoMessages[rand.Intn(len(infoMessages))]
	}
	message = fmt.Sprintf("%s (ID: %d)", message, rand.Intn(1000))

	return model.LogRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   message,
		Source:    logSources[rand.Intn(len(logSources))],
		Type:      logType,
	}
}

// generateAnomalousLog produces a very long message with heavy repetition,
// which should trip both the length and the statistical checks.
func generateAnomalousLog() model.LogRecord {
	record := generateLog()
	record.Type = "error"

	base := errorMessages[rand.Intn(len(errorMessages))]
	record.Message = strings.TrimSpace(strings.Repeat(base+" ", 30))
	return record
}

func sendLog(client *http.Client, serverURL string, record model.LogRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	resp, err := client.Post(serverURL+"/api/ingest/log", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("log server returned HTTP %d", resp.StatusCode)
	}

	preview := record.Message
	if len(preview) > 30 {
		preview = preview[:30] + "..."
	}
	fmt.Printf("Log sent successfully: %s - %s\n", record.Type, preview)
	return nil
}
