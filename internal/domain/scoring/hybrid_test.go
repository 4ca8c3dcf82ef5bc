package scoring_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/okian/rolematch/internal/domain/catalog"
	"github.com/okian/rolematch/internal/domain/model"
	"github.com/okian/rolematch/internal/domain/scoring"
	"github.com/okian/rolematch/internal/domain/vectorizer"
	. "github.com/smartystreets/goconvey/convey"
)

func exampleCatalog() []model.JobPosting {
	return []model.JobPosting{
		{CombinedFeatures: "python, sql, data analyst intern", TargetRole: "Data Analyst"},
		{CombinedFeatures: "java, software intern", TargetRole: "Software Engineer"},
		{CombinedFeatures: "python, ml intern", TargetRole: "ML Engineer"},
	}
}

// contentVsPopularity favors ML Engineer by text and Data Analyst by count.
func contentVsPopularity() []model.JobPosting {
	return []model.JobPosting{
		{CombinedFeatures: "python, tensorflow, ml intern", TargetRole: "ML Engineer"},
		{CombinedFeatures: "excel, reporting", TargetRole: "Data Analyst"},
		{CombinedFeatures: "tableau, reporting", TargetRole: "Data Analyst"},
		{CombinedFeatures: "power bi, dashboards", TargetRole: "Data Analyst"},
	}
}

func fit(jobs []model.JobPosting) *vectorizer.TFIDF {
	docs := make([]string, len(jobs))
	for i, j := range jobs {
		docs[i] = j.CombinedFeatures
	}
	tf, err := vectorizer.Fit(docs)
	if err != nil {
		panic(err)
	}
	return tf
}

func dataAnalystCandidate() model.CandidateProfile {
	return model.CandidateProfile{
		Skills:      []string{"Python", "SQL"},
		CurrentRole: "Data Analyst Intern",
	}
}

func TestRecommend_Examples(t *testing.T) {
	Convey("Given the three posting example catalog", t, func() {
		jobs := exampleCatalog()
		tf := fit(jobs)

		Convey("When alpha is 1 and top_n is 2", func() {
			roles, err := scoring.Recommend(dataAnalystCandidate(), jobs, tf,
				scoring.WithAlpha(1), scoring.WithTopN(2))

			Convey("Then the closest text wins and residual similarity orders the rest", func() {
				So(err, ShouldBeNil)
				So(roles, ShouldResemble, []string{"Data Analyst", "ML Engineer"})
			})
		})

		Convey("When Data Analyst appears three times and alpha is 0", func() {
			expanded := append(exampleCatalog(),
				model.JobPosting{CombinedFeatures: "excel, data analyst intern", TargetRole: "Data Analyst"},
				model.JobPosting{CombinedFeatures: "power bi, data analyst intern", TargetRole: "Data Analyst"},
			)
			tf := fit(expanded)
			javaDev := model.CandidateProfile{Skills: []string{"Java"}, CurrentRole: "Software Intern"}

			roles, err := scoring.Recommend(javaDev, expanded, tf, scoring.WithAlpha(0), scoring.WithTopN(1))

			Convey("Then popularity alone decides", func() {
				So(err, ShouldBeNil)
				So(roles, ShouldResemble, []string{"Data Analyst"})
			})
		})
	})
}

func TestRecommend_AlphaFlip(t *testing.T) {
	Convey("Given a catalog where text and popularity disagree", t, func() {
		jobs := contentVsPopularity()
		tf := fit(jobs)
		candidate := model.CandidateProfile{
			Skills:      []string{"Python", "TensorFlow"},
			CurrentRole: "ML Intern",
		}

		Convey("When alpha is 1", func() {
			roles, err := scoring.Recommend(candidate, jobs, tf, scoring.WithAlpha(1), scoring.WithTopN(2))

			Convey("Then content similarity ranks ML Engineer first", func() {
				So(err, ShouldBeNil)
				So(roles, ShouldResemble, []string{"ML Engineer", "Data Analyst"})
			})
		})

		Convey("When alpha is 0", func() {
			roles, err := scoring.Recommend(candidate, jobs, tf, scoring.WithAlpha(0), scoring.WithTopN(2))

			Convey("Then popularity ranks Data Analyst first", func() {
				So(err, ShouldBeNil)
				So(roles, ShouldResemble, []string{"Data Analyst", "ML Engineer"})
			})
		})

		Convey("When the default alpha is used", func() {
			roles, err := scoring.Recommend(candidate, jobs, tf, scoring.WithTopN(1))

			Convey("Then the raw popularity count outweighs a perfect text match", func() {
				// 0.6*1 + 0.4*1 = 1.0 for ML Engineer vs 0.4*3 = 1.2 for Data Analyst.
				So(err, ShouldBeNil)
				So(roles, ShouldResemble, []string{"Data Analyst"})
			})
		})
	})
}

func TestRecommend_Properties(t *testing.T) {
	Convey("Given the example catalog", t, func() {
		jobs := exampleCatalog()
		tf := fit(jobs)
		c, err := catalog.New(jobs)
		So(err, ShouldBeNil)

		candidates := []model.CandidateProfile{
			dataAnalystCandidate(),
			{Skills: []string{"Java"}, CurrentRole: "Software Intern", LanguageProficiency: []string{"English"}},
			{},
		}
		alphas := []float64{0, 0.25, 0.6, 1}

		Convey("Then results are bounded, distinct and drawn from the catalog", func() {
			for _, cand := range candidates {
				for _, a := range alphas {
					for n := 1; n <= 4; n++ {
						roles, err := scoring.Recommend(cand, jobs, tf, scoring.WithAlpha(a), scoring.WithTopN(n))
						So(err, ShouldBeNil)
						So(len(roles), ShouldBeLessThanOrEqualTo, n)
						seen := map[string]bool{}
						for _, r := range roles {
							So(seen[r], ShouldBeFalse)
							seen[r] = true
							So(c.HasRole(r), ShouldBeTrue)
						}
					}
				}
			}
		})

		Convey("Then identical inputs give identical output", func() {
			first, err := scoring.Recommend(dataAnalystCandidate(), jobs, tf)
			So(err, ShouldBeNil)
			second, err := scoring.Recommend(dataAnalystCandidate(), jobs, tf)
			So(err, ShouldBeNil)
			So(second, ShouldResemble, first)
		})

		Convey("Then a larger top_n extends the smaller result", func() {
			one, _ := scoring.Recommend(dataAnalystCandidate(), jobs, tf, scoring.WithAlpha(0.8), scoring.WithTopN(1))
			two, _ := scoring.Recommend(dataAnalystCandidate(), jobs, tf, scoring.WithAlpha(0.8), scoring.WithTopN(2))
			three, _ := scoring.Recommend(dataAnalystCandidate(), jobs, tf, scoring.WithAlpha(0.8), scoring.WithTopN(3))
			So(len(three), ShouldEqual, 3)
			So(two[:1], ShouldResemble, one)
			So(three[:2], ShouldResemble, two)
		})

		Convey("Then top_n beyond the distinct roles returns every role once", func() {
			roles, err := scoring.Recommend(dataAnalystCandidate(), jobs, tf, scoring.WithTopN(10))
			So(err, ShouldBeNil)
			So(len(roles), ShouldEqual, 3)
		})

		Convey("Then equal scores keep catalog order", func() {
			roles, err := scoring.Recommend(model.CandidateProfile{}, jobs, tf, scoring.WithAlpha(0), scoring.WithTopN(3))
			So(err, ShouldBeNil)
			So(roles, ShouldResemble, []string{"Data Analyst", "Software Engineer", "ML Engineer"})
		})
	})
}

func TestRecommend_Errors(t *testing.T) {
	Convey("Given the example catalog", t, func() {
		jobs := exampleCatalog()
		tf := fit(jobs)
		cand := dataAnalystCandidate()

		Convey("When the catalog is empty", func() {
			_, err := scoring.Recommend(cand, nil, tf)
			So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When alpha is out of range", func() {
			for _, a := range []float64{-0.01, 1.01, math.NaN()} {
				_, err := scoring.Recommend(cand, jobs, tf, scoring.WithAlpha(a))
				So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
			}
		})

		Convey("When top_n is not positive", func() {
			for _, n := range []int{0, -3} {
				_, err := scoring.Recommend(cand, jobs, tf, scoring.WithTopN(n))
				So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
			}
		})

		Convey("When the vectorizer is nil", func() {
			_, err := scoring.Recommend(cand, jobs, nil)
			So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When candidate and posting vectors differ in length", func() {
			_, err := scoring.Recommend(cand, []model.JobPosting{{CombinedFeatures: "job a", TargetRole: "A"}}, skewed{})
			So(errors.Is(err, scoring.ErrVectorizerMismatch), ShouldBeTrue)
		})

		Convey("When the vectorizer fails", func() {
			_, err := scoring.Recommend(cand, jobs, failing{})
			So(errors.Is(err, errTransform), ShouldBeTrue)
		})
	})
}

func TestScorer(t *testing.T) {
	Convey("Given a scorer built from a catalog", t, func() {
		jobs := contentVsPopularity()
		tf := fit(jobs)
		c, err := catalog.New(jobs)
		So(err, ShouldBeNil)
		s, err := scoring.NewScorer(c, tf)
		So(err, ShouldBeNil)
		So(s.Len(), ShouldEqual, 4)

		candidate := model.CandidateProfile{Skills: []string{"Python", "TensorFlow"}, CurrentRole: "ML Intern"}
		ctx := context.Background()

		Convey("Then it agrees with the uncached function", func() {
			for _, a := range []float64{0, 0.3, 0.6, 1} {
				want, err := scoring.Recommend(candidate, jobs, tf, scoring.WithAlpha(a), scoring.WithTopN(2))
				So(err, ShouldBeNil)
				got, err := s.Recommend(ctx, candidate, scoring.WithAlpha(a), scoring.WithTopN(2))
				So(err, ShouldBeNil)
				So(got, ShouldResemble, want)
			}
		})

		Convey("When explaining a recommendation", func() {
			top, err := s.Explain(ctx, candidate, scoring.WithParams(scoring.Params{TopN: 2, Alpha: 0.6}))

			Convey("Then each role carries the signals of its introducing posting", func() {
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 2)
				So(top[0].Role, ShouldEqual, "Data Analyst")
				So(top[0].Index, ShouldEqual, 1)
				So(top[0].Popularity, ShouldEqual, 3.0)
				So(top[0].Content, ShouldEqual, 0.0)
				So(top[0].Score, ShouldAlmostEqual, 1.2, 1e-9)
				So(top[1].Role, ShouldEqual, "ML Engineer")
				So(top[1].Content, ShouldAlmostEqual, 1.0, 1e-9)
				So(top[1].Score, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Recommend(cctx, candidate)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("When parameters are invalid", func() {
			_, err := s.Recommend(ctx, candidate, scoring.WithTopN(0))
			So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
		})
	})

	Convey("Given bad scorer inputs", t, func() {
		Convey("When the catalog is nil", func() {
			_, err := scoring.NewScorer(nil, fit(exampleCatalog()))
			So(errors.Is(err, scoring.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When posting vectors disagree in length", func() {
			c, _ := catalog.New([]model.JobPosting{
				{CombinedFeatures: "a", TargetRole: "A"},
				{CombinedFeatures: "bb", TargetRole: "B"},
			})
			_, err := scoring.NewScorer(c, byLength{})
			So(errors.Is(err, scoring.ErrVectorizerMismatch), ShouldBeTrue)
		})
	})
}

func TestCosine(t *testing.T) {
	Convey("Given vectors", t, func() {
		Convey("Then parallel vectors have similarity 1", func() {
			v, err := scoring.Cosine([]float64{1, 2}, []float64{2, 4})
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Then a zero vector has similarity 0", func() {
			v, err := scoring.Cosine([]float64{0, 0}, []float64{1, 1})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0.0)
		})

		Convey("Then differing lengths are a mismatch", func() {
			_, err := scoring.Cosine([]float64{1}, []float64{1, 0})
			So(errors.Is(err, scoring.ErrVectorizerMismatch), ShouldBeTrue)
		})
	})
}

// skewed gives postings two dimensions and everything else one.
type skewed struct{}

func (skewed) Transform(text string) ([]float64, error) {
	if strings.HasPrefix(text, "job") {
		return []float64{1, 0}, nil
	}
	return []float64{1}, nil
}
func (skewed) Dimension() int { return 2 }

// byLength returns a vector as long as the text.
type byLength struct{}

func (byLength) Transform(text string) ([]float64, error) { return make([]float64, len(text)), nil }
func (byLength) Dimension() int                           { return 0 }

var errTransform = errors.New("transform failed")

type failing struct{}

func (failing) Transform(string) ([]float64, error) { return nil, errTransform }
func (failing) Dimension() int                      { return 0 }
