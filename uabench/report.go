package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/dustin/go-humanize"
)

const timestampLayout = "2006-01-02 15:04:05 -0700"

func groupMarker(reps int) string {
	if reps == 1 {
		return "missing"
	}
	return fmt.Sprintf("hitting %dx", reps)
}

func printTimestamp(w io.Writer, t time.Time) {
	fmt.Fprintln(w, t.Format(timestampLayout))
}

func lookupRate(r phaseResult) float64 {
	if r.Wall <= 0 {
		return 0
	}
	return float64(r.Lookups) / r.Wall.Seconds()
}

func printSummary(w io.Writer, results []phaseResult) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "adapter\treps\tlookups\twall\tcpu\tlookups/s\tcache hits\tcache misses")
	for _, r := range results {
		hits, misses := "-", "-"
		if r.Cached {
			hits = humanize.Comma(int64(r.Hits))
			misses = humanize.Comma(int64(r.Misses))
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Adapter,
			r.Reps,
			humanize.Comma(int64(r.Lookups)),
			r.Wall.Round(time.Microsecond),
			r.CPU.Round(time.Microsecond),
			humanize.Comma(int64(lookupRate(r))),
			hits,
			misses,
		)
	}
	return tw.Flush()
}

type jsonPhase struct {
	Label   string    `json:"label"`
	Adapter string    `json:"adapter"`
	Reps    int       `json:"reps"`
	Lookups int       `json:"lookups"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	WallNS  int64     `json:"wall_ns"`
	CPUNS   int64     `json:"cpu_ns"`

	CacheHits   *int `json:"cache_hits,omitempty"`
	CacheMisses *int `json:"cache_misses,omitempty"`
}

func writeJSONReport(w io.Writer, results []phaseResult) error {
	phases := make([]jsonPhase, len(results))
	for i, r := range results {
		phases[i] = jsonPhase{
			Label:   r.Label,
			Adapter: r.Adapter,
			Reps:    r.Reps,
			Lookups: r.Lookups,
			Start:   r.Start,
			End:     r.End,
			WallNS:  int64(r.Wall),
			CPUNS:   int64(r.CPU),
		}
		if r.Cached {
			hits, misses := r.Hits, r.Misses
			phases[i].CacheHits = &hits
			phases[i].CacheMisses = &misses
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(phases)
}

// parseS3URL splits s3://bucket/key into its bucket and key.
func parseS3URL(dest string) (bucket, key string, err error) {
	u, err := url.Parse(dest)
	if err != nil {
		return "", "", err
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return "", "", fmt.Errorf("bad upload destination %q (want s3://bucket/key)", dest)
	}
	return u.Host, key, nil
}

const uploadTimeout = 30 * time.Second

// uploadReport puts a report into S3 using the shared AWS config and
// credentials (~/.aws/config, ~/.aws/credentials, or the environment).
func uploadReport(ctx context.Context, dest string, body []byte) error {
	bucket, key, err := parseS3URL(dest)
	if err != nil {
		return err
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return fmt.Errorf("cannot create AWS session: %s", err)
	}
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	_, err = s3.New(sess).PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("S3 upload to %s failed: %s", dest, err)
	}
	return nil
}
