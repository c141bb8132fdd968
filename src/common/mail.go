package common

import (
	"encoding/json"
	"log"
	"maestro/src/lib"
	awslib "maestro/src/lib/aws"
	"maestro/src/types"
	"maestro/src/utils"
	"os"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/tidwall/gjson"
)

// deliverMail picks the transport. SMTP is the default; setting
// MAIL_TRANSPORT=ses routes delivery through SES instead.
func deliverMail(input *lib.SendMailInput) error {
	if os.Getenv("MAIL_TRANSPORT") == "ses" {
		return awslib.SESSendMessage(
			awssdk.String(input.From),
			&sestypes.Destination{ToAddresses: input.To},
			&sestypes.Message{
				Subject: &sestypes.Content{Data: awssdk.String(input.Subject)},
				Body: &sestypes.Body{
					Html: &sestypes.Content{Data: awssdk.String(input.Body)},
				},
			},
		)
	}
	return lib.SendMail(input)
}

func sendFromPayload(spayload string) {
	from := gjson.Get(spayload, "from").String()
	fromName := gjson.Get(spayload, "from-name").String()
	subject := gjson.Get(spayload, "subject").String()
	log.Printf("from [%s] with subject: %s\n", from, subject)

	toArr := gjson.Get(spayload, "to").Array()
	to := make([]string, 0)
	for _, item := range toArr {
		to = append(to, item.String())
	}
	replyTo := gjson.Get(spayload, "reply-to").String()

	var body types.JSONB
	if err := json.Unmarshal([]byte(spayload), &body); err != nil {
		log.Printf("error deserializing json: %s\n", err.Error())
		return
	}
	go func() {
		input := &lib.SendMailInput{
			From:     from,
			FromName: fromName,
			To:       to,
			ReplyTo:  replyTo,
			Subject:  body["subject"].(string),
			Body:     body["body"].(string),
			Html:     body["html"].(bool),
		}
		if err := deliverMail(input); err != nil {
			log.Printf("[MAILER] error sending email: %s\n", err.Error())
			return
		}
		log.Printf("[MAILER]: an email has been sent to %s\n", to)
	}()
}

func KafkaEmailsToSendConsumer(spayload string) {
	if !gjson.Valid(spayload) {
		log.Println("Received invalid json body. Aborting")
		return
	}
	sendFromPayload(spayload)
}

func EmailsToSendConsumer() {
	qname := utils.WithSuffix("EmailsToSend")
	log.Printf("%s: Listening for messages...", qname)
	c := awslib.NewSQSConsumer(qname, func(spayload string) {
		if !gjson.Valid(spayload) {
			log.Printf("[%s]: Received invalid json body. Aborting", qname)
			return
		}
		sendFromPayload(spayload)
	})
	c.Listen()
}
