package notify

import (
	"alcyxob/workout-journey/internal/config" // Import your config package
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/google/uuid"
)

// sesNotifier implements the Notifier interface using Amazon SES.
type sesNotifier struct {
	client *sesv2.Client
	from   string
	to     string
}

// NewSESNotifier creates a new SES-backed notifier instance.
func NewSESNotifier(cfg config.EmailConfig) (Notifier, error) {
	// Load AWS configuration
	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(), // Use context.TODO() for init is generally acceptable
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for SES: %v", err)
		return nil, err
	}

	sesClient := sesv2.NewFromConfig(awsSDKConfig)

	log.Printf("SES Notifier initialized for region: %s, recipient: %s", cfg.Region, cfg.To)

	return &sesNotifier{
		client: sesClient,
		from:   cfg.From,
		to:     cfg.To,
	}, nil
}

// NotifyUnlock sends the unlock email. The caller decides whether and
// when to notify; this adapter only handles transport.
func (n *sesNotifier) NotifyUnlock(ctx context.Context, rewardName string, userID string) error {
	// Reference id to correlate delivery problems with server logs.
	refID := uuid.NewString()

	subject := fmt.Sprintf("Reward unlocked: %s", rewardName)
	body := fmt.Sprintf(
		"Good news! %s just unlocked the %q reward.\n\nTime to make it happen.\n\nRef: %s\n",
		userID, rewardName, refID,
	)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.from),
		Destination: &types.Destination{
			ToAddresses: []string{n.to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		log.Printf("ERROR: Failed to send unlock email (ref %s, reward %q): %v", refID, rewardName, err)
		return err
	}

	log.Printf("Unlock email sent (ref %s): reward %q for user %s", refID, rewardName, userID)
	return nil
}
