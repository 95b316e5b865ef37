package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/x-batch-go/internal/domain"
)

var (
	serverURL   string
	noAutoStart bool
	rootCmd     = &cobra.Command{
		Use:   "x-batch",
		Short: "X-Batch CLI - Batch media downloader for X/Twitter timelines",
		Long:  `A command-line interface for extracting X/Twitter timeline metadata and batch downloading media.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8090", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&noAutoStart, "no-auto-start", false, "Don't auto-start server if not running")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(daterangeCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(convertGifsCmd)
}

// ensureServer checks if server is running and starts it if needed (unless --no-auto-start)
func ensureServer() {
	if noAutoStart {
		return
	}
	if err := ensureServerRunning(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

func postJSON(path string, payload interface{}) ([]byte, int) {
	data, _ := json.Marshal(payload)
	resp, err := http.Post(serverURL+path, "application/json", bytes.NewBuffer(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode
}

func getJSON(path string) ([]byte, int) {
	resp, err := http.Get(serverURL + path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode
}

func fail(body []byte) {
	var result map[string]interface{}
	if json.Unmarshal(body, &result) == nil && result["error"] != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", result["error"])
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
	}
	os.Exit(1)
}

func extractTimeline(cmd *cobra.Command, username string) *domain.TimelineResponse {
	token, _ := cmd.Flags().GetString("token")
	timelineType, _ := cmd.Flags().GetString("type")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	page, _ := cmd.Flags().GetInt("page")
	mediaType, _ := cmd.Flags().GetString("media-type")
	retweets, _ := cmd.Flags().GetBool("retweets")

	body, status := postJSON("/api/v1/timeline", domain.TimelineRequest{
		Username:     username,
		AuthToken:    token,
		TimelineType: timelineType,
		BatchSize:    batchSize,
		Page:         page,
		MediaType:    mediaType,
		Retweets:     retweets,
	})
	if status != http.StatusOK {
		fail(body)
	}

	var response domain.TimelineResponse
	if err := json.Unmarshal(body, &response); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid response: %v\n", err)
		os.Exit(1)
	}
	return &response
}

func printTimelineSummary(response *domain.TimelineResponse) {
	fmt.Printf("Account:   @%s (%s)\n", response.AccountInfo.Nick, response.AccountInfo.Name)
	fmt.Printf("Media:     %d URLs\n", response.TotalURLs)
	fmt.Printf("Page:      %d (batch size %d, more: %v)\n",
		response.Metadata.Page, response.Metadata.BatchSize, response.Metadata.HasMore)
}

var extractCmd = &cobra.Command{
	Use:   "extract [username]",
	Short: "Extract timeline media metadata for an account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		response := extractTimeline(cmd, args[0])
		printTimelineSummary(response)

		if listEntries, _ := cmd.Flags().GetBool("list"); listEntries {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TWEET\tTYPE\tDATE\tURL")
			for _, entry := range response.Timeline {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					entry.TweetID, entry.Type, entry.Date, truncate(entry.URL, 60))
			}
			w.Flush()
		}
	},
}

var daterangeCmd = &cobra.Command{
	Use:   "daterange [username]",
	Short: "Extract timeline media within a date range",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		token, _ := cmd.Flags().GetString("token")
		startDate, _ := cmd.Flags().GetString("start-date")
		endDate, _ := cmd.Flags().GetString("end-date")
		filter, _ := cmd.Flags().GetString("filter")

		body, status := postJSON("/api/v1/timeline/range", domain.DateRangeRequest{
			Username:    args[0],
			AuthToken:   token,
			StartDate:   startDate,
			EndDate:     endDate,
			MediaFilter: filter,
		})
		if status != http.StatusOK {
			fail(body)
		}

		var response domain.TimelineResponse
		if err := json.Unmarshal(body, &response); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid response: %v\n", err)
			os.Exit(1)
		}
		printTimelineSummary(&response)
	},
}

// savedTimeline fetches the stored snapshot for a username via the accounts API
func savedTimeline(username string) *domain.TimelineResponse {
	body, status := getJSON("/api/v1/accounts")
	if status != http.StatusOK {
		fail(body)
	}

	var accounts []domain.AccountSummary
	json.Unmarshal(body, &accounts)

	for _, a := range accounts {
		if a.Username != username {
			continue
		}
		body, status = getJSON(fmt.Sprintf("/api/v1/accounts/%d", a.ID))
		if status != http.StatusOK {
			fail(body)
		}
		var response domain.TimelineResponse
		if err := json.Unmarshal(body, &response); err != nil {
			fmt.Fprintf(os.Stderr, "Error: stored snapshot unreadable: %v\n", err)
			os.Exit(1)
		}
		return &response
	}

	fmt.Fprintf(os.Stderr, "Error: no saved account for @%s (run extract first)\n", username)
	os.Exit(1)
	return nil
}

var downloadCmd = &cobra.Command{
	Use:   "download [username]",
	Short: "Extract a timeline and download all media as one batch",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		username := args[0]

		var response *domain.TimelineResponse
		if saved, _ := cmd.Flags().GetBool("saved"); saved {
			response = savedTimeline(username)
		} else {
			if token, _ := cmd.Flags().GetString("token"); token == "" {
				fmt.Fprintln(os.Stderr, "Error: --token is required unless --saved is set")
				os.Exit(1)
			}
			response = extractTimeline(cmd, username)
		}
		items := response.MediaItems()
		fmt.Printf("Starting download of %d media items for @%s...\n", len(items), username)

		outputDir, _ := cmd.Flags().GetString("output")
		body, status := postJSON("/api/v1/batches", map[string]interface{}{
			"items":      items,
			"output_dir": outputDir,
			"username":   username,
		})
		if status == http.StatusConflict {
			fmt.Fprintln(os.Stderr, "Error: a batch download is already in progress")
			os.Exit(1)
		}
		if status != http.StatusOK {
			fail(body)
		}

		var result domain.BatchResult
		json.Unmarshal(body, &result)
		fmt.Printf("Batch %s finished\n", result.BatchID)
		fmt.Printf("  Downloaded: %d\n", result.Downloaded)
		fmt.Printf("  Failed:     %d\n", result.Failed)
		if result.Cancelled {
			fmt.Println("  Cancelled:  yes")
		}
		if result.Message != "" {
			fmt.Printf("  %s\n", result.Message)
		}
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the in-flight batch download",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		body, status := postJSON("/api/v1/batches/cancel", nil)
		if status != http.StatusOK {
			fail(body)
		}
		fmt.Println("Batch cancellation requested")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the current batch download",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		body, status := getJSON("/api/v1/batches/active")
		if status != http.StatusOK {
			fail(body)
		}

		var result struct {
			Running  bool            `json:"running"`
			Progress domain.Progress `json:"progress"`
		}
		json.Unmarshal(body, &result)

		if result.Running {
			fmt.Printf("Batch in progress: %d/%d (%d%%)\n",
				result.Progress.Current, result.Progress.Total, result.Progress.Percent)
		} else {
			fmt.Println("No batch in progress")
		}
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage saved accounts",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved accounts",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		body, status := getJSON("/api/v1/accounts")
		if status != http.StatusOK {
			fail(body)
		}

		var accounts []domain.AccountSummary
		json.Unmarshal(body, &accounts)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tMEDIA\tGROUP\tFETCHED")
		for _, a := range accounts {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
				a.ID, a.Username, truncate(a.Name, 24), a.TotalMedia, a.GroupName, a.LastFetched)
		}
		w.Flush()
	},
}

var accountsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Print the stored timeline JSON for an account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		body, status := getJSON("/api/v1/accounts/" + url.PathEscape(args[0]))
		if status != http.StatusOK {
			fail(body)
		}

		var pretty bytes.Buffer
		if json.Indent(&pretty, body, "", "  ") == nil {
			fmt.Println(pretty.String())
		} else {
			fmt.Print(string(body))
		}
	},
}

var accountsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		req, _ := http.NewRequest(http.MethodDelete, serverURL+"/api/v1/accounts/"+url.PathEscape(args[0]), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			fail(body)
		}
		fmt.Println("Account deleted")
	},
}

var accountsExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a saved account as a JSON backup",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		outputDir, _ := cmd.Flags().GetString("output")

		body, status := postJSON("/api/v1/accounts/"+url.PathEscape(args[0])+"/export",
			map[string]string{"output_dir": outputDir})
		if status != http.StatusOK {
			fail(body)
		}

		var result map[string]interface{}
		json.Unmarshal(body, &result)
		fmt.Printf("Exported to %v\n", result["path"])
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs [category]",
	Short: "View server logs (app, batch, extract, web, error)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		limit, _ := cmd.Flags().GetInt("limit")
		search, _ := cmd.Flags().GetString("search")

		path := fmt.Sprintf("/api/v1/logs/%s?limit=%d", url.PathEscape(args[0]), limit)
		if search != "" {
			path = fmt.Sprintf("/api/v1/logs/%s/search?q=%s&limit=%d",
				url.PathEscape(args[0]), url.QueryEscape(search), limit)
		}

		body, status := getJSON(path)
		if status != http.StatusOK {
			fail(body)
		}

		var result struct {
			Entries []struct {
				Timestamp string `json:"timestamp"`
				Level     string `json:"level"`
				Message   string `json:"message"`
			} `json:"entries"`
		}
		json.Unmarshal(body, &result)

		for _, entry := range result.Entries {
			fmt.Printf("%s [%s] %s\n", entry.Timestamp, entry.Level, entry.Message)
		}
	},
}

var convertGifsCmd = &cobra.Command{
	Use:   "convert-gifs [folder]",
	Short: "Convert downloaded mp4 animations in a folder to GIF",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		fps, _ := cmd.Flags().GetInt("fps")
		width, _ := cmd.Flags().GetInt("width")
		deleteOriginal, _ := cmd.Flags().GetBool("delete")

		body, status := postJSON("/api/v1/tools/convert-gifs", map[string]interface{}{
			"folder":          args[0],
			"fps":             fps,
			"width":           width,
			"delete_original": deleteOriginal,
		})
		if status != http.StatusOK {
			fail(body)
		}

		var result map[string]interface{}
		json.Unmarshal(body, &result)
		fmt.Printf("Converted: %v, Failed: %v\n", result["converted"], result["failed"])
	},
}

func init() {
	for _, cmd := range []*cobra.Command{extractCmd, downloadCmd} {
		cmd.Flags().StringP("token", "t", "", "X/Twitter auth token")
		cmd.Flags().String("type", "media", "Timeline type (media, timeline, tweets, with_replies)")
		cmd.Flags().Int("batch-size", 0, "Entries per page (0 = all)")
		cmd.Flags().Int("page", 1, "Page number")
		cmd.Flags().String("media-type", "all", "Media type filter (all, image, video, gif)")
		cmd.Flags().Bool("retweets", false, "Include retweets")
	}
	extractCmd.MarkFlagRequired("token")
	extractCmd.Flags().BoolP("list", "l", false, "List every extracted entry")
	downloadCmd.Flags().StringP("output", "o", "", "Output directory (defaults to configured base dir)")
	downloadCmd.Flags().Bool("saved", false, "Use the stored account snapshot instead of a fresh extraction")

	daterangeCmd.Flags().StringP("token", "t", "", "X/Twitter auth token (required)")
	daterangeCmd.Flags().String("start-date", "", "Start date (YYYY-MM-DD)")
	daterangeCmd.Flags().String("end-date", "", "End date (YYYY-MM-DD)")
	daterangeCmd.Flags().String("filter", "filter:media", "Search filter")
	daterangeCmd.MarkFlagRequired("token")

	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsGetCmd)
	accountsCmd.AddCommand(accountsDeleteCmd)
	accountsCmd.AddCommand(accountsExportCmd)
	accountsExportCmd.Flags().StringP("output", "o", ".", "Directory to write the backup into")

	logsCmd.Flags().IntP("limit", "n", 50, "Number of entries to show")
	logsCmd.Flags().StringP("search", "s", "", "Filter entries by text")

	convertGifsCmd.Flags().Int("fps", 0, "Frames per second (0 = server default)")
	convertGifsCmd.Flags().Int("width", 0, "Output width in pixels (0 = server default)")
	convertGifsCmd.Flags().Bool("delete", false, "Delete the mp4 after a successful conversion")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
