package aws

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

func GetSESClient() (*ses.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return ses.NewFromConfig(cfg), nil
}

// SESSendMessage delivers a single message through SES. The send error comes
// back to the caller; the mail consumer decides whether to log or retry.
func SESSendMessage(from *string, destination *types.Destination, message *types.Message) error {
	client, err := GetSESClient()
	if err != nil {
		return err
	}
	out, err := client.SendEmail(context.TODO(), &ses.SendEmailInput{
		Destination: destination,
		Source:      from,
		Message:     message,
	})
	if err != nil {
		return fmt.Errorf("sending email over ses: %w", err)
	}
	log.Printf("[SES] sent email with id: %s\n", *out.MessageId)
	return nil
}
