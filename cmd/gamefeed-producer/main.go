// gamefeed-producer publishes synthetic game lifecycle events to the league
// feed topic. Useful for exercising the consumer path locally.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/IBM/sarama"
)

// GameEvent mirrors the feed's wire format
type GameEvent struct {
	GameID    string    `json:"game_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

func main() {
	// Command line flags
	brokers := flag.String("brokers", "localhost:9094", "Kafka brokers (comma-separated)")
	topic := flag.String("topic", "game-events", "Kafka topic")
	gameIDs := flag.String("games", "", "Game IDs to publish events for (comma-separated)")
	eventType := flag.String("event", "started", "Event type: started, completed, or cancelled")
	interval := flag.Duration("interval", 0, "Delay between events (0 = send all at once)")
	flag.Parse()

	if *gameIDs == "" {
		log.Fatal("at least one game ID is required (-games)")
	}
	switch *eventType {
	case "started", "completed", "cancelled":
	default:
		log.Fatalf("unknown event type %q", *eventType)
	}

	brokerList := strings.Split(*brokers, ",")
	idList := strings.Split(*gameIDs, ",")

	fmt.Printf("Publishing %q events for %d games to %s (%s)\n",
		*eventType, len(idList), *topic, *brokers)

	// Configure Sarama producer
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 100 * time.Millisecond
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true

	// Create producer
	producer, err := sarama.NewAsyncProducer(brokerList, config)
	if err != nil {
		log.Fatalf("Failed to create producer: %v", err)
	}

	// Handle producer errors and successes
	var successCount, errorCount int64
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range producer.Successes() {
			atomic.AddInt64(&successCount, 1)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for err := range producer.Errors() {
			atomic.AddInt64(&errorCount, 1)
			log.Printf("Producer error: %v", err)
		}
	}()

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})

	// Send message helper; keyed by game ID so a game's events stay ordered
	sendEvent := func(gameID string) {
		event := GameEvent{
			GameID:    gameID,
			EventType: *eventType,
			Timestamp: time.Now().UTC(),
		}
		data, err := json.Marshal(event)
		if err != nil {
			log.Printf("Failed to marshal event: %v", err)
			return
		}

		msg := &sarama.ProducerMessage{
			Topic: *topic,
			Key:   sarama.StringEncoder(gameID),
			Value: sarama.ByteEncoder(data),
		}

		select {
		case producer.Input() <- msg:
		case <-done:
		}
	}

	for i, gameID := range idList {
		gameID = strings.TrimSpace(gameID)
		if gameID == "" {
			continue
		}

		select {
		case <-sigChan:
			fmt.Println("\nInterrupted, shutting down...")
			close(done)
			producer.AsyncClose()
			wg.Wait()
			fmt.Printf("Sent: %d, Errors: %d\n", atomic.LoadInt64(&successCount), atomic.LoadInt64(&errorCount))
			return
		default:
		}

		sendEvent(gameID)
		fmt.Printf("  [%d/%d] %s %s\n", i+1, len(idList), gameID, *eventType)

		if *interval > 0 && i < len(idList)-1 {
			time.Sleep(*interval)
		}
	}

	close(done)
	producer.AsyncClose()
	wg.Wait()
	fmt.Printf("Completed. Sent: %d, Errors: %d\n", atomic.LoadInt64(&successCount), atomic.LoadInt64(&errorCount))
}
