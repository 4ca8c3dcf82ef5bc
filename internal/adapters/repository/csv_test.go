package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/rolematch/internal/adapters/repository"
	"github.com/okian/rolematch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestCSVSource(t *testing.T) {
	ctx := context.Background()

	Convey("Given a CSV with precomputed combined features", t, func() {
		path := writeFile(t, "jobs.csv", "Job_ID,combined_features,Target_Role\n"+
			"1,\"python, sql, data analyst intern\",Data Analyst\n"+
			"2,\"java, software intern\", Software Engineer \n")
		src := repository.NewCSVSource(path)

		Convey("When loading", func() {
			got, err := src.Load(ctx)

			Convey("Then rows are returned in file order with trimmed roles", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []model.JobPosting{
					{CombinedFeatures: "python, sql, data analyst intern", TargetRole: "Data Analyst"},
					{CombinedFeatures: "java, software intern", TargetRole: "Software Engineer"},
				})
				So(src.Close(), ShouldBeNil)
			})
		})
	})

	Convey("Given a CSV with raw candidate columns", t, func() {
		path := writeFile(t, "raw.csv", "Skills,Current_Role,Course_University,Language_Proficiency,Target_Role\n"+
			"\"Python, SQL\",Data Analyst Intern,,English,Data Analyst\n")

		Convey("When loading", func() {
			got, err := repository.NewCSVSource(path).Load(ctx)

			Convey("Then combined features are derived like a candidate's", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].CombinedFeatures, ShouldEqual, "python, sql, data analyst intern, , english")
				So(got[0].TargetRole, ShouldEqual, "Data Analyst")
			})
		})
	})

	Convey("Given a semicolon separated file", t, func() {
		path := writeFile(t, "semi.csv", "combined_features;target_role\njava;Software Engineer\n")

		Convey("Then WithComma selects the delimiter", func() {
			got, err := repository.NewCSVSource(path, repository.WithComma(';')).Load(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []model.JobPosting{{CombinedFeatures: "java", TargetRole: "Software Engineer"}})
		})
	})

	Convey("Given malformed inputs", t, func() {
		Convey("When the target role column is missing", func() {
			_, err := repository.ReadCSV(ctx, strings.NewReader("combined_features\npython\n"), ',')
			So(errors.Is(err, repository.ErrMissingColumn), ShouldBeTrue)
		})

		Convey("When neither combined nor raw columns exist", func() {
			_, err := repository.ReadCSV(ctx, strings.NewReader("skills,target_role\npython,X\n"), ',')
			So(errors.Is(err, repository.ErrMissingColumn), ShouldBeTrue)
		})

		Convey("When the file is empty", func() {
			got, err := repository.ReadCSV(ctx, strings.NewReader(""), ',')
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("When the file does not exist", func() {
			_, err := repository.NewCSVSource(filepath.Join(t.TempDir(), "nope.csv")).Load(ctx)
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := repository.ReadCSV(cctx, strings.NewReader("combined_features,target_role\na,B\n"), ',')
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
