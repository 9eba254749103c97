// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	ProjectNotFoundId
	ProjectInvalidId
	ArtifactNotFoundId
	ToolNotFoundId
	ToolExecutionFailedId
	ReportParseFailedId
	ReportWriteFailedId
	SplitPackagesFoundId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation for this issue type
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file exists but could not be used. Default values apply
only when no file is found.

## Things you can try:
- Print the configuration that splitpkgscan would use:
~~~
$ splitpkgscan config show
~~~

- Check SPLITPKGSCAN_* environment variables for typos
- Regenerate a default file in a scratch directory and compare:
~~~
$ splitpkgscan config dump
~~~`,
	}

	projectNotFoundIssue = &Issue{
		id: ProjectNotFoundId,
		mdMsg: `
# No project descriptor found!

splitpkgscan looks for one of these files in the project directory:
splitpkgscan.cue, splitpkgscan.toml, splitpkgscan.yaml, splitpkgscan.yml

## Things you can try:
- Point at the project explicitly:
~~~
$ splitpkgscan scan --project path/to/splitpkgscan.cue
~~~

- Create a descriptor:
~~~cue
name: "my-app"
artifact: path: "target/my-app.jar"
dependencies: [
  {coordinates: "org.example:lib:1.0.0"},
]
~~~`,
	}

	projectInvalidIssue = &Issue{
		id: ProjectInvalidId,
		mdMsg: `
# Invalid project descriptor!

The descriptor could not be decoded or failed validation.

## Common causes:
- Unknown fields (descriptors are strict)
- Dependency coordinates not in group:artifact:version form
- An extra artifact without a scope

## Things you can try:
- Fix the field named in the error above
- Run with --verbose to see the full error chain`,
	}

	artifactNotFoundIssue = &Issue{
		id: ArtifactNotFoundId,
		mdMsg: `
# Artifact not found!

A dependency could not be resolved to a jar in the local repository.

## Things you can try:
- Download the dependencies with your build tool first
- Point at another repository root:
~~~
$ splitpkgscan scan --repository /path/to/repository
~~~`,
	}

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# Package scanner not found!

The configured package scanner is not installed or not on your PATH.

## Things you can try:
- Install a JDK that ships the scanner and add its bin directory to PATH
- Configure the full path of the executable:
~~~cue
tool: command: "/opt/jdk/bin/jsplitpgkscan"
~~~

- Or wrap another tool in a script:
~~~cue
tool: {
  kind:   "script"
  script: "exec my-scanner \"$@\""
}
~~~`,
	}

	toolExecutionFailedIssue = &Issue{
		id: ToolExecutionFailedId,
		mdMsg: `
# Package scanner failed!

The scanner exited with an error. Its standard error output is shown above.

## Things you can try:
- Check that every artifact path in the scan set exists and is a jar
- Run the scanner by hand with the same arguments
- Increase --timeout for very large scan sets`,
	}

	reportParseFailedIssue = &Issue{
		id: ReportParseFailedId,
		mdMsg: `
# Could not read the scanner output!

A line of the scanner report did not match the expected layout.

## Things you can try:
- Check that the configured tool really is a package scanner
- Make sure extra tool arguments do not change the output format`,
	}

	reportWriteFailedIssue = &Issue{
		id: ReportWriteFailedId,
		mdMsg: `
# Could not write the report!

The scan finished but the report file could not be written.

## Things you can try:
- Check that the output directory is writable
- Choose another directory with --output-dir
- Disable the report file:
~~~cue
report: format: "none"
~~~`,
	}

	splitPackagesFoundIssue = &Issue{
		id: SplitPackagesFoundId,
		mdMsg: `
# Split packages found!

At least one package is provided by more than one module. Named modules
cannot share a package.

## Things you can try:
- Exclude one of the duplicate artifacts from the project
- Move the classes of one module into a distinct package
- Merge the modules into a single artifact`,
		extLinks: []HttpLink{
			"https://openjdk.org/projects/jigsaw/spec/sotms/",
		},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- The scanner executable is not executable
- The output directory is owned by another user
- An artifact in the repository is not readable

## Things you can try:
- Check file and directory permissions
- Run splitpkgscan from a directory you own`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		projectNotFoundIssue.Id():     projectNotFoundIssue,
		projectInvalidIssue.Id():      projectInvalidIssue,
		artifactNotFoundIssue.Id():    artifactNotFoundIssue,
		toolNotFoundIssue.Id():        toolNotFoundIssue,
		toolExecutionFailedIssue.Id(): toolExecutionFailedIssue,
		reportParseFailedIssue.Id():   reportParseFailedIssue,
		reportWriteFailedIssue.Id():   reportWriteFailedIssue,
		splitPackagesFoundIssue.Id():  splitPackagesFoundIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by ID.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for v := range maps.Values(issues) {
		values = append(values, v)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
