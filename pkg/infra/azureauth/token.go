package azureauth

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const CognitiveServicesScope = "https://cognitiveservices.azure.com/.default"

// TokenSource returns a bearer token for an Azure AI resource.
type TokenSource func(ctx context.Context) (string, error)

// DefaultToken resolves a Cognitive Services token through the default
// Azure credential chain.
func DefaultToken(ctx context.Context) (string, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create credential: %w", err)
	}
	token, err := cred.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{CognitiveServicesScope},
	})
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return token.Token, nil
}
