package irr

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/telekom/das-schiff-irr-resolver/pkg/bgpq"
	mock_bgpq "github.com/telekom/das-schiff-irr-resolver/pkg/bgpq/mock"
	"github.com/telekom/das-schiff-irr-resolver/pkg/config"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.BGPQ.Path = "/usr/bin/bgpq3"
	cfg.BGPQ.Host = "rr.ntt.net"
	cfg.BGPQ.Sources = "RADB,RIPE"
	cfg.BGPQ.Args = config.ExtraArguments{
		IPv6: []string{"-R", "16"},
	}
	return cfg
}

func succeedWith(stdout string) func(context.Context, bgpq.Command) (*bgpq.Invocation, error) {
	return func(_ context.Context, cmd bgpq.Command) (*bgpq.Invocation, error) {
		return &bgpq.Invocation{Command: cmd, Stdout: []byte(stdout)}, nil
	}
}

var _ = Describe("Resolver", func() {
	var (
		mockCtrl *gomock.Controller
		runner   *mock_bgpq.MockRunner
		resolver *Resolver
		ctx      context.Context
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		runner = mock_bgpq.NewMockRunner(mockCtrl)
		resolver = NewResolver(testConfig(), runner)
		ctx = context.Background()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("BuildCommand() should", func() {
		It("build a prefix expansion without extra arguments", func() {
			cmd, ok := resolver.BuildCommand(Request{Operation: ExpandPrefixes, Subject: "AS-FOO", Family: IPv4})
			Expect(ok).To(BeTrue())
			Expect(cmd.Path).To(Equal("/usr/bin/bgpq3"))
			Expect(cmd.Args).To(Equal([]string{
				"-h", "rr.ntt.net", "-S", "RADB,RIPE", "-4", "-A", "-j", "-l", "object_list", "AS-FOO",
			}))
		})
		It("splice extra arguments before the output flags", func() {
			cmd, ok := resolver.BuildCommand(Request{Operation: ExpandPrefixes, Subject: "AS-FOO", Family: IPv6})
			Expect(ok).To(BeTrue())
			Expect(cmd.Args).To(Equal([]string{
				"-h", "rr.ntt.net", "-S", "RADB,RIPE", "-6", "-A", "-R", "16", "-j", "-l", "object_list", "AS-FOO",
			}))
		})
		It("never splice extra arguments into member expansions", func() {
			cmd, ok := resolver.BuildCommand(Request{Operation: ExpandMembers, Subject: "AS-FOO", Family: IPv6})
			Expect(ok).To(BeTrue())
			Expect(cmd.Args).To(Equal([]string{
				"-h", "rr.ntt.net", "-S", "RADB,RIPE", "-f", "1", "-j", "-l", "object_list", "AS-FOO",
			}))
		})
		It("refuse unsupported operations", func() {
			_, ok := resolver.BuildCommand(Request{Operation: Operation(42), Subject: "AS-FOO", Family: IPv6})
			Expect(ok).To(BeFalse())
		})
	})

	Context("Resolve() should", func() {
		It("return records in tool order", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				DoAndReturn(succeedWith(`{"object_list": ["192.0.2.0/24", "198.51.100.0/24"]}`))
			result, err := resolver.ResolveAsSetPrefixes(ctx, "AS-FOO", IPv4)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal([]string{"192.0.2.0/24", "198.51.100.0/24"}))
		})
		It("return an empty list for an empty object list", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(succeedWith(`{"object_list": []}`))
			result, err := resolver.ResolveAsSetPrefixes(ctx, "AS-EMPTY", IPv4)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty())
		})
		It("not run the tool for empty subjects", func() {
			result, err := resolver.ResolveAsSetPrefixes(ctx, "", IPv6)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty())

			result, err = resolver.ResolveASNPrefixes(ctx, "", IPv6)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty())

			result, err = resolver.ResolveAsSetMembers(ctx, "  ", IPv6)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty())
		})
		It("not run the tool for unsupported operations", func() {
			result, err := resolver.Resolve(ctx, Operation(0), "AS-FOO", IPv6)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty())
		})
		It("reject unknown address families for prefix expansion", func() {
			_, err := resolver.ResolveAsSetPrefixes(ctx, "AS-FOO", AddressFamily(5))
			Expect(IsInvalidRequest(err)).To(BeTrue())
		})
		It("trim the subject", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, cmd bgpq.Command) (*bgpq.Invocation, error) {
					Expect(cmd.Args[len(cmd.Args)-1]).To(Equal("AS-FOO"))
					return &bgpq.Invocation{Stdout: []byte(`{"object_list": []}`)}, nil
				})
			_, err := resolver.ResolveAsSetPrefixes(ctx, " AS-FOO ", IPv4)
			Expect(err).ToNot(HaveOccurred())
		})
		It("fail with an external tool failure on non-zero exit", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				Return(&bgpq.Invocation{ExitCode: 1, Stderr: []byte("no objects found")}, nil)
			_, err := resolver.ResolveAsSetPrefixes(ctx, "AS-FOO", IPv4)
			Expect(IsExternalToolFailure(err)).To(BeTrue())

			var failure ExternalToolFailureError
			Expect(errors.As(err, &failure)).To(BeTrue())
			Expect(failure.ExitCode).To(Equal(1))
			Expect(failure.Stderr).To(Equal("no objects found"))
			Expect(err.Error()).To(Equal("bgpq3 exit code is 1, stderr: no objects found"))
		})
		It("omit blank stderr from the failure message", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				Return(&bgpq.Invocation{ExitCode: 2, Stderr: []byte("  \n")}, nil)
			_, err := resolver.ResolveAsSetMembers(ctx, "AS-FOO", IPv4)
			Expect(err).To(MatchError("bgpq3 exit code is 2"))
		})
		It("fail with an external tool failure if the tool cannot run", func() {
			cause := errors.New("executable file not found")
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, cause)
			_, err := resolver.ResolveAsSetPrefixes(ctx, "AS-FOO", IPv4)
			Expect(IsExternalToolFailure(err)).To(BeTrue())
			Expect(errors.Is(err, cause)).To(BeTrue())

			var failure ExternalToolFailureError
			Expect(errors.As(err, &failure)).To(BeTrue())
			Expect(failure.ExitCode).To(Equal(-1))
		})
		It("fail with malformed output on invalid JSON", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(succeedWith("not json"))
			_, err := resolver.ResolveAsSetPrefixes(ctx, "AS-FOO", IPv4)
			Expect(IsMalformedOutput(err)).To(BeTrue())
			Expect(IsExternalToolFailure(err)).To(BeFalse())
		})
		It("fail with malformed output if the list key is missing", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(succeedWith(`{"NN": ["192.0.2.0/24"]}`))
			_, err := resolver.ResolveAsSetPrefixes(ctx, "AS-FOO", IPv4)
			Expect(IsMalformedOutput(err)).To(BeTrue())
		})
		It("fail with malformed output if the list holds no strings", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(succeedWith(`{"object_list": [true]}`))
			_, err := resolver.ResolveAsSetMembers(ctx, "AS-FOO", IPv4)
			Expect(IsMalformedOutput(err)).To(BeTrue())
		})
	})

	Context("ResolveASNPrefixes() should", func() {
		expectSubject := func(subject string) {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, cmd bgpq.Command) (*bgpq.Invocation, error) {
					Expect(cmd.Args).To(ContainElement("-4"))
					Expect(cmd.Args[len(cmd.Args)-1]).To(Equal(subject))
					return &bgpq.Invocation{Stdout: []byte(`{"object_list": ["192.0.2.0/24"]}`)}, nil
				})
		}
		It("prefix bare numbers", func() {
			expectSubject("AS64500")
			_, err := resolver.ResolveASNPrefixes(ctx, "64500", IPv4)
			Expect(err).ToNot(HaveOccurred())
		})
		It("not prefix twice", func() {
			expectSubject("AS64500")
			_, err := resolver.ResolveASNPrefixes(ctx, "AS64500", IPv4)
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Context("ResolveAsSetMembers() should", func() {
		It("request members only and format numeric records", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, cmd bgpq.Command) (*bgpq.Invocation, error) {
					Expect(cmd.Args).To(ContainElements("-f", "1"))
					Expect(cmd.Args).ToNot(ContainElement("-A"))
					return &bgpq.Invocation{Stdout: []byte(`{"object_list": [64500, 64501]}`)}, nil
				})
			members, err := resolver.ResolveAsSetMembers(ctx, "AS-FOO", IPv6)
			Expect(err).ToNot(HaveOccurred())
			Expect(members).To(Equal([]string{"64500", "64501"}))
		})
		It("reject records that are neither strings nor ASNs", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				Return(&bgpq.Invocation{Stdout: []byte(`{"object_list": ["64500", {"asn": 64501}]}`)}, nil)
			_, err := resolver.ResolveAsSetMembers(ctx, "AS-FOO", IPv6)
			Expect(IsMalformedOutput(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("object_list[1]"))
		})
	})
})

var _ = Describe("ASNSubject()", func() {
	It("matches the AS prefix case-sensitively", func() {
		Expect(ASNSubject("64500")).To(Equal("AS64500"))
		Expect(ASNSubject("AS64500")).To(Equal("AS64500"))
		Expect(ASNSubject("as64500")).To(Equal("ASas64500"))
		Expect(FormatASN(64500)).To(Equal("AS64500"))
	})
})

var _ = Describe("ParseAddressFamily()", func() {
	It("accepts numbers and names", func() {
		for input, expected := range map[string]AddressFamily{"4": IPv4, "ipv4": IPv4, "IPv6": IPv6, " 6 ": IPv6} {
			af, err := ParseAddressFamily(input)
			Expect(err).ToNot(HaveOccurred())
			Expect(af).To(Equal(expected))
		}
	})
	It("rejects anything else", func() {
		_, err := ParseAddressFamily("5")
		Expect(err).To(HaveOccurred())
	})
})
