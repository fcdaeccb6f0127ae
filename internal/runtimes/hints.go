package runtimes

import "runtime"

const (
	homebrewInstall = `/bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`
	nvmInstall      = `curl -o- https://raw.githubusercontent.com/nvm-sh/nvm/v0.39.7/install.sh | bash`
)

// Hints returns manual steps for getting a version manager for lang onto
// the host. They are shown to the user and never executed.
func Hints(lang Language) []string {
	return hintsFor(lang, runtime.GOOS)
}

func hintsFor(lang Language, goos string) []string {
	switch lang {
	case Python:
		switch goos {
		case "darwin":
			return []string{
				"Install Homebrew: " + homebrewInstall,
				"then install pyenv: brew install pyenv",
			}
		case "linux":
			return []string{
				"Install pyenv: curl https://pyenv.run | bash",
				"or install Homebrew: " + homebrewInstall,
			}
		case "windows":
			return []string{"Install Python via winget: winget install Python.Python.3.12"}
		}
	case JavaScript:
		switch goos {
		case "windows":
			return []string{"Install Node.js via winget: winget install OpenJS.NodeJS.LTS"}
		default:
			return []string{"Install nvm: " + nvmInstall}
		}
	case PHP:
		switch goos {
		case "darwin":
			return []string{"Install Homebrew: " + homebrewInstall}
		case "linux":
			return []string{
				"Install PHP with your distro package manager, e.g. sudo apt install php",
				"or install Homebrew: " + homebrewInstall,
			}
		case "windows":
			return []string{"Install PHP via winget: winget install PHP.PHP"}
		}
	default:
		return nil
	}
	return []string{"Install a version manager for " + lang.DisplayName() + " using your platform's package manager"}
}
