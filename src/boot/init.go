package boot

import (
	"log"
	"maestro/src/common"
	"maestro/src/db"
	"maestro/src/lib"
	"maestro/src/models"
	"maestro/src/utils"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Artist{},
		&models.Event{},
		&models.Booking{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitBroker wires the mail queue consumers. Local environments mirror the
// queue onto the Kafka broker so the flow can run without AWS.
func InitBroker() {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	if emailQueue == "" {
		emailQueue = "EmailsToSend"
	}
	if os.Getenv("API_ENV") == "local" {
		go lib.KafkaCreateTopics(utils.WithSuffix(emailQueue))
		go lib.KafkaConsumeTopic("mailer", utils.WithSuffix(emailQueue), common.KafkaEmailsToSendConsumer)
	}
	go common.EmailsToSendConsumer()
}

// InitScheduler starts the hourly sweep that cancels bookings still pending
// after their event has passed.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	j, err := sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(utils.CancelStalePendingBookings),
	)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s %s\n", j.Name(), j.ID().String())
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}
