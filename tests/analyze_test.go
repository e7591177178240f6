package tests_test

import (
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/sonde/tests/testutils"
)

func TestAnalyzeCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "analyze without arguments fails",
			Command:     test.Command("analyze"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze raw stdin without sample rate fails",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				cmd := helpers.Command("analyze", "-b", "16", "-")
				cmd.Feed(sinePCM(1000, 48000, 1, 1))

				return cmd
			},
			Expected: test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze with unknown input kind fails",
			Command:     test.Command("analyze", "--input", "mp3", "-s", "48000", "-"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze with bad bit depth fails",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				cmd := helpers.Command("analyze", "-s", "48000", "-b", "20", "-")
				cmd.Feed(sinePCM(1000, 48000, 1, 1))

				return cmd
			},
			Expected: test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze raw stdin finds the tone",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				cmd := helpers.Command("analyze", "-s", "48000", "-b", "16", "-")
				cmd.Feed(sinePCM(1000, 48000, 2, 1))

				return cmd
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("2.0s measured (48000 Hz, 2 channels)"),
						expectContains("996 Hz"),
						expectContains("Mono/Narrow"),
						expectNotContains("channel_imbalance"),
					),
				}
			},
		},
		{
			Description: "analyze inverted channels reports opposite polarity",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				cmd := helpers.Command("analyze", "-s", "48000", "-b", "16", "-")
				cmd.Feed(sinePCM(440, 48000, 1, -1))

				return cmd
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectContains("Out of phase"),
				}
			},
		},
		{
			Description: "analyze reports a quieter right channel",
			Command: func(_ test.Data, helpers test.Helpers) test.TestableCommand {
				cmd := helpers.Command("analyze", "-s", "48000", "-b", "16", "-")
				cmd.Feed(sinePCM(440, 48000, 1, 0.5))

				return cmd
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectContains("6.0 dB (left louder)"),
				}
			},
		},
	}

	testCase.Run(t)
}
