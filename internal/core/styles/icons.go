package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconGitBranch = "" // nf-dev-git_branch
	IconGitCommit = "" // nf-oct-git_commit
	IconComment   = "" // nf-fa-comment
	IconSearch    = "" // nf-fa-search
)
