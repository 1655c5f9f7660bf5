package monarch

const getAccountsQuery = `
    query GetAccounts {
        accounts {
            id
            displayName
            syncDisabled
            deactivatedAt
            isHidden
            isAsset
            mask
            createdAt
            updatedAt
            displayLastUpdatedAt
            currentBalance
            displayBalance
            includeInNetWorth
            hideFromList
            hideTransactionsFromReports
            includeBalanceInNetWorth
            includeInGoalBalance
            dataProvider
            dataProviderAccountId
            isManual
            transactionsCount
            holdingsCount
            manualInvestmentsTrackingMethod
            order
            logoUrl
            type {
                name
                display
                __typename
            }
            subtype {
                name
                display
                __typename
            }
            credential {
                id
                updateRequired
                disconnectedFromDataProviderAt
                dataProvider
                institution {
                    id
                    plaidInstitutionId
                    name
                    status
                    __typename
                }
                __typename
            }
            institution {
                id
                name
                primaryColor
                url
                __typename
            }
            __typename
        }
    }
`

const getTransactionsQuery = `
    query GetTransactionsList($offset: Int, $limit: Int, $filters: TransactionFilterInput, $orderBy: TransactionOrdering) {
        allTransactions(filters: $filters) {
            totalCount
            results(offset: $offset, limit: $limit, orderBy: $orderBy) {
                id
                amount
                pending
                date
                hideFromReports
                plaidName
                notes
                isRecurring
                reviewStatus
                needsReview
                attachments {
                    id
                    extension
                    filename
                    originalAssetUrl
                    publicId
                    sizeBytes
                    __typename
                }
                isSplitTransaction
                createdAt
                updatedAt
                category {
                    id
                    name
                    __typename
                }
                merchant {
                    name
                    id
                    transactionsCount
                    __typename
                }
                account {
                    id
                    displayName
                    __typename
                }
                tags {
                    id
                    name
                    color
                    order
                    __typename
                }
                __typename
            }
            __typename
        }
    }
`

const getTransactionCategoriesQuery = `
    query GetCategories {
        categories {
            id
            name
            __typename
        }
    }
`

const getSubscriptionDetailsQuery = `
    query GetSubscriptionDetails {
        subscription {
            id
            paymentSource
            referralCode
            isOnFreeTrial
            hasPremiumEntitlement
            __typename
        }
    }
`

const getBudgetsQuery = `
    query GetBudgets {
        budgetData {
            name
            amount
            spent
            __typename
        }
    }
`

const getCashflowQuery = `
    query GetCashflow($filters: TransactionFilterInput) {
        summary: aggregates(filters: $filters, fillEmptyValues: true) {
            summary {
                sumIncome
                sumExpense
                savings
                savingsRate
                __typename
            }
            __typename
        }
    }
`

const createTransactionMutation = `
    mutation CreateTransactionMutation($input: CreateTransactionMutationInput!) {
        createTransaction(input: $input) {
            errors {
                message
                __typename
            }
            transaction {
                id
                __typename
            }
            __typename
        }
    }
`
