package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/guideline/internal/chunker"
	"github.com/sells-group/guideline/internal/model"
)

var (
	ingestTitle         string
	ingestPolicyKey     string
	ingestAccess        string
	ingestEffectiveDate string
	ingestTags          []string
	ingestReset         bool
)

// policyKeyFromPath derives a policy key from a file name, e.g.
// "Travel Policy.md" becomes "travel_policy".
func policyKeyFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(strings.Join(strings.Fields(base), "_"))
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Ingest policy documents from markdown or text files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 && (ingestTitle != "" || ingestPolicyKey != "") {
			return eris.New("--title and --policy-key apply to a single file only")
		}

		env, err := initService(cmd.Context(), "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		if ingestReset {
			for _, path := range args {
				key := ingestPolicyKey
				if key == "" {
					key = policyKeyFromPath(path)
				}
				n, err := env.Store.DeleteDocumentsByPolicyKey(cmd.Context(), key)
				if err != nil {
					return err
				}
				if n > 0 {
					zap.L().Info("removed previous revisions",
						zap.String("policyKey", key),
						zap.Int("documents", n),
					)
				}
			}
		}

		effectiveDate := ingestEffectiveDate
		if effectiveDate == "" {
			effectiveDate = time.Now().UTC().Format("2006-01-02")
		}
		access := model.AccessLevel(ingestAccess)
		tags := ingestTags
		if tags == nil {
			tags = []string{}
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(4)

		for _, path := range args {
			g.Go(func() error {
				content, err := os.ReadFile(path)
				if err != nil {
					return eris.Wrapf(err, "read %s", path)
				}

				doc := model.Document{
					ID:            uuid.New().String(),
					Title:         ingestTitle,
					PolicyKey:     ingestPolicyKey,
					EffectiveDate: effectiveDate,
					Access:        access,
					Tags:          tags,
					CreatedAt:     time.Now().UTC(),
				}
				if doc.Title == "" {
					doc.Title = titleFromPath(path)
				}
				if doc.PolicyKey == "" {
					doc.PolicyKey = policyKeyFromPath(path)
				}
				doc.Chunks = chunker.Split(doc.ID, string(content), access, effectiveDate)

				if err := env.Store.CreateDocument(ctx, doc); err != nil {
					return eris.Wrapf(err, "ingest %s", path)
				}

				zap.L().Info("document ingested",
					zap.String("file", path),
					zap.String("docId", doc.ID),
					zap.String("policyKey", doc.PolicyKey),
					zap.Int("chunks", len(doc.Chunks)),
				)
				return nil
			})
		}

		return g.Wait()
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (default: file name)")
	ingestCmd.Flags().StringVar(&ingestPolicyKey, "policy-key", "", "policy key grouping revisions (default: derived from file name)")
	ingestCmd.Flags().StringVar(&ingestAccess, "access", "internal", "access level: public, internal, confidential or restricted")
	ingestCmd.Flags().StringVar(&ingestEffectiveDate, "effective-date", "", "effective date YYYY-MM-DD (default: today)")
	ingestCmd.Flags().StringSliceVar(&ingestTags, "tags", nil, "document tags")
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "delete existing documents with the same policy key first")
	rootCmd.AddCommand(ingestCmd)
}
