package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/workintel/workintel/pkg/domain/notify"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification preferences and delivery history",
}

var (
	prefsOwner      string
	prefsChannels   []string
	prefsQuietStart string
	prefsQuietEnd   string
	prefsTimezone   string
	prefsDisable    []string
)

var notifyPrefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Set notification preferences for a stakeholder",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		prefs := notify.DefaultPreferences(prefsOwner)
		if len(prefsChannels) > 0 {
			prefs.Channels = nil
			for _, c := range prefsChannels {
				channel := notify.Channel(c)
				if !channel.IsValid() {
					return fmt.Errorf("unknown channel %q", c)
				}
				prefs.Channels = append(prefs.Channels, channel)
			}
		}
		for _, s := range prefsDisable {
			severity := notify.Severity(s)
			if !severity.IsValid() {
				return fmt.Errorf("unknown severity %q", s)
			}
			prefs.SeverityThresholds[severity] = false
		}
		if prefsQuietStart != "" || prefsQuietEnd != "" {
			prefs.QuietHours = &notify.QuietHours{
				Start:    prefsQuietStart,
				End:      prefsQuietEnd,
				Timezone: prefsTimezone,
			}
		}

		if err := services.Notification.UpdateNotificationPreferences(cmd.Context(), prefs); err != nil {
			return MapError(err)
		}
		fmt.Printf("Preferences saved for %s\n", prefsOwner)
		return nil
	},
}

var notifyStatusCmd = &cobra.Command{
	Use:   "status <notification-id>",
	Short: "Show the delivery attempts for a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		attempts, err := services.Notification.GetNotificationStatus(cmd.Context(), args[0])
		if err != nil {
			return MapError(err)
		}
		if len(attempts) == 0 {
			fmt.Println("No delivery attempts recorded.")
			return nil
		}
		return json.NewEncoder(os.Stdout).Encode(attempts)
	},
}

func init() {
	notifyPrefsCmd.Flags().StringVar(&prefsOwner, "owner", "", "Preference owner (email or team id, required)")
	notifyPrefsCmd.Flags().StringSliceVar(&prefsChannels, "channels", nil, "Preferred channels in order (slack, teams, email, sms)")
	notifyPrefsCmd.Flags().StringSliceVar(&prefsDisable, "disable", nil, "Severities to suppress (low, medium, high, critical)")
	notifyPrefsCmd.Flags().StringVar(&prefsQuietStart, "quiet-start", "", "Quiet hours start (HH:MM)")
	notifyPrefsCmd.Flags().StringVar(&prefsQuietEnd, "quiet-end", "", "Quiet hours end (HH:MM)")
	notifyPrefsCmd.Flags().StringVar(&prefsTimezone, "timezone", "UTC", "IANA timezone for quiet hours")
	_ = notifyPrefsCmd.MarkFlagRequired("owner")

	notifyCmd.AddCommand(notifyPrefsCmd)
	notifyCmd.AddCommand(notifyStatusCmd)
	RootCmd.AddCommand(notifyCmd)
}
