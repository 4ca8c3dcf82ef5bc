package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/rolematch/internal/domain/model"
	"github.com/okian/rolematch/internal/domain/scoring"
	"github.com/okian/rolematch/internal/domain/types"
	"github.com/spf13/cobra"
)

type runFlags struct {
	skills     []string
	role       string
	course     string
	languages  []string
	internship string
	experience float64
	topN       int
	alpha      float64
	explain    bool
	asJSON     bool
}

func newRunCmd(root *rootFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Recommend roles for one candidate",
		Example: `  recommend run --catalog data/jobs.csv --skills Python,SQL --role "Data Analyst Intern" \
    --course "Data Science - Sabaragamuwa University of Sri Lanka" --languages English --top-n 5 --alpha 0.6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cfg, err := root.startService(cmd)
			if err != nil {
				return err
			}
			defer svc.Stop()

			p := scoring.Params{TopN: cfg.DefaultTopN, Alpha: cfg.DefaultAlpha}
			if cmd.Flags().Changed("top-n") {
				p.TopN = f.topN
			}
			if cmd.Flags().Changed("alpha") {
				p.Alpha = f.alpha
			}
			candidate := model.CandidateProfile{
				Skills:              f.skills,
				CurrentRole:         f.role,
				CourseUniversity:    f.course,
				LanguageProficiency: f.languages,
				PreviousInternship:  f.internship,
				ExperienceYears:     f.experience,
			}
			return f.print(cmd, svc, candidate, p)
		},
	}

	cmd.Flags().StringSliceVar(&f.skills, "skills", nil, "comma separated skills")
	cmd.Flags().StringVar(&f.role, "role", "", "current role")
	cmd.Flags().StringVar(&f.course, "course", "", "course and university")
	cmd.Flags().StringSliceVar(&f.languages, "languages", nil, "comma separated languages")
	cmd.Flags().StringVar(&f.internship, "internship", "", "previous internship")
	cmd.Flags().Float64Var(&f.experience, "experience", 0, "years of experience")
	cmd.Flags().IntVarP(&f.topN, "top-n", "n", scoring.DefaultTopN, "maximum number of roles")
	cmd.Flags().Float64VarP(&f.alpha, "alpha", "a", scoring.DefaultAlpha, "text similarity weight in [0,1]")
	cmd.Flags().BoolVar(&f.explain, "explain", false, "show the score breakdown of each role")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print JSON")
	return cmd
}

type recommender interface {
	Recommend(ctx context.Context, c model.CandidateProfile, p scoring.Params) ([]string, error)
	Explain(ctx context.Context, c model.CandidateProfile, p scoring.Params) ([]scoring.ScoredJob, error)
}

func (f *runFlags) print(cmd *cobra.Command, svc recommender, c model.CandidateProfile, p scoring.Params) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if f.explain {
		scored, err := svc.Explain(ctx, c, p)
		if err != nil {
			return err
		}
		if f.asJSON {
			expl := make([]types.Explanation, len(scored))
			for i, s := range scored {
				expl[i] = types.Explanation{Rank: i + 1, Role: s.Role, Content: s.Content, Popularity: s.Popularity, Score: s.Score}
			}
			return json.NewEncoder(out).Encode(expl)
		}
		for i, s := range scored {
			fmt.Fprintf(out, "%d. %s (score=%.4f content=%.4f popularity=%g)\n",
				i+1, s.Role, s.Score, s.Content, s.Popularity)
		}
		return nil
	}

	roles, err := svc.Recommend(ctx, c, p)
	if err != nil {
		return err
	}
	if f.asJSON {
		return json.NewEncoder(out).Encode(types.Rank(roles))
	}
	for i, r := range roles {
		fmt.Fprintf(out, "%d. %s\n", i+1, r)
	}
	return nil
}
