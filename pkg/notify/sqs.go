package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"

	"travel/internal/flight"
)

const EventBookingConfirmed = "booking.confirmed"

type bookingMessage struct {
	Event            string         `json:"event"`
	OrderID          string         `json:"order_id"`
	BookingReference string         `json:"booking_reference"`
	Status           string         `json:"status"`
	OfferID          string         `json:"offer_id"`
	ContactEmail     string         `json:"contact_email"`
	Flight           *flight.Flight `json:"flight,omitempty"`
}

// SQSNotifier publishes booking confirmations to an SQS queue.
type SQSNotifier struct {
	client   sqsiface.SQSAPI
	queueURL string
}

// NewSQSNotifier resolves the queue URL once, up front.
func NewSQSNotifier(ctx context.Context, client sqsiface.SQSAPI, queueName string) (*SQSNotifier, error) {
	out, err := client.GetQueueUrlWithContext(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queueName),
	})
	if err != nil {
		return nil, fmt.Errorf("notify: resolve queue %q: %w", queueName, err)
	}

	return &SQSNotifier{
		client:   client,
		queueURL: aws.StringValue(out.QueueUrl),
	}, nil
}

// NewSQSNotifierFromEnv builds the SQS client from the default AWS session chain.
func NewSQSNotifierFromEnv(ctx context.Context, queueName string) (*SQSNotifier, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, fmt.Errorf("notify: aws session: %w", err)
	}
	return NewSQSNotifier(ctx, sqs.New(sess), queueName)
}

func (n *SQSNotifier) BookingConfirmed(ctx context.Context, b flight.BookingNotification) error {
	msgBytes, err := json.Marshal(bookingMessage{
		Event:            EventBookingConfirmed,
		OrderID:          b.OrderID,
		BookingReference: b.BookingReference,
		Status:           b.Status,
		OfferID:          b.OfferID,
		ContactEmail:     b.ContactEmail,
		Flight:           b.Flight,
	})
	if err != nil {
		return fmt.Errorf("notify: marshal booking %s: %w", b.OrderID, err)
	}

	_, err = n.client.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		MessageBody: aws.String(string(msgBytes)),
		QueueUrl:    aws.String(n.queueURL),
		MessageAttributes: map[string]*sqs.MessageAttributeValue{
			"event": {
				DataType:    aws.String("String"),
				StringValue: aws.String(EventBookingConfirmed),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("notify: send booking %s: %w", b.OrderID, err)
	}
	return nil
}
