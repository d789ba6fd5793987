package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// DeployRenderer renders the outcome of a marketplace deployment
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// RenderDeployResult renders the deployment record and the verification outcome
func (r *DeployRenderer) RenderDeployResult(result *usecase.DeployResult) error {
	dep := result.Deployment
	if dep == nil {
		return fmt.Errorf("no deployment to render")
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s deployed", dep.ContractName)))
	fmt.Fprintln(r.out, field("Network", fmt.Sprintf("%s (chain %d)", dep.Network, dep.ChainID)))
	fmt.Fprintln(r.out, field("Address", addressStyle.Sprint(dep.Address)))
	fmt.Fprintln(r.out, field("Deployer", dep.Deployer))
	fmt.Fprintln(r.out, field("Transaction", dep.TransactionHash))
	fmt.Fprintln(r.out, field("Block", dep.BlockNumber))
	fmt.Fprintln(r.out, field("Confirmations", dep.ConfirmationsWaited))
	fmt.Fprintln(r.out, field("Verification", FormatVerificationStatus(dep.Verification.Status)))
	if dep.Verification.URL != "" {
		fmt.Fprintln(r.out, field("Explorer", dep.Verification.URL))
	}

	if result.VerificationErr != nil {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Verification failed, the deployment is still usable: %v", result.VerificationErr)))
	}
	return nil
}
