package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.csv")
	data := "combined_features,target_role\n" +
		"\"python, sql, data analyst intern\",Data Analyst\n" +
		"\"java, software intern\",Software Engineer\n" +
		"\"python, ml intern\",ML Engineer\n" +
		"\"excel, data analyst intern\",Data Analyst\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	Convey("Given a CSV catalog", t, func() {
		t.Setenv("ROLEMATCH_CONFIG", "")
		path := writeCatalog(t)

		Convey("When running with content-only weighting", func() {
			out, err := execute("run", "--catalog", path, "--skills", "Python,SQL",
				"--role", "Data Analyst Intern", "--top-n", "2", "--alpha", "1")

			Convey("Then ranked roles are printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "1. Data Analyst\n2. ML Engineer\n")
			})
		})

		Convey("When running with popularity-only weighting", func() {
			out, err := execute("run", "--catalog", path, "--skills", "Java", "-n", "1", "-a", "0")

			Convey("Then the most frequent role wins", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "1. Data Analyst\n")
			})
		})

		Convey("When asking for JSON with an explanation", func() {
			out, err := execute("run", "--catalog", path, "--skills", "Java", "--role", "Software Intern",
				"--alpha", "1", "--top-n", "1", "--explain", "--json")

			Convey("Then the breakdown is encoded", func() {
				So(err, ShouldBeNil)
				var got []map[string]interface{}
				So(json.Unmarshal([]byte(out), &got), ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0]["role"], ShouldEqual, "Software Engineer")
			})
		})

		Convey("When alpha is out of range", func() {
			_, err := execute("run", "--catalog", path, "--alpha", "1.5")

			Convey("Then the command fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the catalog does not exist", func() {
			_, err := execute("run", "--catalog", filepath.Join(t.TempDir(), "missing.csv"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRolesCommand(t *testing.T) {
	Convey("Given a CSV catalog", t, func() {
		t.Setenv("ROLEMATCH_CONFIG", "")
		out, err := execute("roles", "--catalog", writeCatalog(t))

		Convey("Then roles are listed by posting count", func() {
			So(err, ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			So(len(lines), ShouldEqual, 4)
			So(lines[0], ShouldStartWith, "ROLE")
			So(lines[1], ShouldStartWith, "Data Analyst")
			So(lines[1], ShouldEndWith, "2")
		})
	})
}

func TestOptionsCommand(t *testing.T) {
	Convey("Given the options command", t, func() {
		Convey("When printing text", func() {
			out, err := execute("options")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Skills:\n  Python\n")
			So(out, ShouldContainSubstring, "  UI/UX Intern\n  None\n")
		})

		Convey("When printing JSON", func() {
			out, err := execute("options", "--json")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, `"languages":["English","Sinhala","Tamil"]`)
		})
	})
}
