// Package prompt resolves a missing Python version through a numbered
// console menu.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/keith-taylor/pyinit/pyenv"
	"github.com/keith-taylor/pyinit/terminal"
)

type Chooser struct {
	term *terminal.Console
}

// Menus with this many options or more print a range instead of every number.
const longMenu = 8

func NewChooser(term *terminal.Console) *Chooser {
	return &Chooser{term: term}
}

// DefaultMissing tells the user that the configured default version is not
// installed and lists what is.
func DefaultMissing(term *terminal.Console, fallback string, installed []string) {
	lines := []string{
		"Note!",
		"",
		fmt.Sprintf("Python %s is specified as the default version of Python but this is NOT currently installed.", fallback),
		"",
		"You must either:",
		fmt.Sprintf("\t- install Python %s (`pyenv install %s`) or,", fallback, fallback),
		"\t- change default_version in the configuration file to an already installed Python version.",
		"",
		"The currently installed Python versions are:",
	}

	term.Notice(append(lines, installed...)...)
}

// Choose implements [pyenv.Chooser].
// Non-nil returned error wraps [pyenv.ErrAborted].
func (c *Chooser) Choose(installed []string, requested, fallback string) (string, error) {
	c.term.Notice("Note!", fmt.Sprintf("Python version '%s' is not currently installed in pyenv.", requested))
	c.term.Println("The Python versions currently installed are:")

	for i, v := range installed {
		c.term.Printf("(%d) %s\n", i+1, v)
	}

	c.term.Println()
	c.term.Println("Do you want to:")
	c.term.Println("\t[1] use one of the installed versions listed above")
	c.term.Printf("\t[2] continue with the default Python version (%s)\n", fallback)
	c.term.Println("\t[3] install a new Python version into pyenv or abort")

	choice, err := c.term.ReadLine("Choose: ")
	if err != nil {
		return "", fmt.Errorf("%w: no choice made: %s", pyenv.ErrAborted, err.Error())
	}

	switch choice {
	case "1":
		return c.pick(installed)
	case "2":
		c.term.Printf("\nSetting the Python version to: %s\n", fallback)

		return fallback, nil
	default:
		c.term.Println("\nAborting! Please install your desired Python version into pyenv and run this again.")

		return "", fmt.Errorf("%w: install Python %s into pyenv first", pyenv.ErrAborted, requested)
	}
}

func (c *Chooser) pick(installed []string) (string, error) {
	question := fmt.Sprintf("Please choose an option from the Python versions listed above %s or 0 to exit: ", options(len(installed)))

	for {
		line, err := c.term.ReadLine(question)
		if err != nil {
			return "", fmt.Errorf("%w: no version selected: %s", pyenv.ErrAborted, err.Error())
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			c.term.Println("Invalid input! Please enter an integer value from the options listed above.")

			continue
		}

		switch {
		case n == 0:
			c.term.Println("\nAborting!")

			return "", fmt.Errorf("%w: no version selected", pyenv.ErrAborted)
		case n >= 1 && n <= len(installed):
			c.term.Printf("\nSetting the Python version to: %s\n", installed[n-1])

			return installed[n-1], nil
		default:
			c.term.Println("Invalid input! Please enter an integer number from the options listed above.")
		}
	}
}

func options(n int) string {
	if n >= longMenu {
		return fmt.Sprintf("(1 to %d)", n)
	}

	nums := make([]string, n)

	for i := range nums {
		nums[i] = strconv.Itoa(i + 1)
	}

	return "(" + strings.Join(nums, ", ") + ")"
}
